package geom

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3i is an integer world, chunk, or cell coordinate. It is a value type;
// every operation returns a new vector.
type Vec3i struct {
	X, Y, Z int
}

// Add returns the component-wise sum.
func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference.
func (v Vec3i) Sub(o Vec3i) Vec3i {
	return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale multiplies every component by k.
func (v Vec3i) Scale(k int) Vec3i {
	return Vec3i{v.X * k, v.Y * k, v.Z * k}
}

// Mod returns the component-wise floored modulus. Results are always in
// [0, k) for k > 0, including for negative components.
func (v Vec3i) Mod(k int) Vec3i {
	return Vec3i{mod(v.X, k), mod(v.Y, k), mod(v.Z, k)}
}

// Align snaps v down to the grid of size k: v - (v mod k).
func (v Vec3i) Align(k int) Vec3i {
	return v.Sub(v.Mod(k))
}

// IsAligned reports whether every component is a multiple of k.
func (v Vec3i) IsAligned(k int) bool {
	return v.Mod(k) == Vec3i{}
}

// Vec converts to a float vector.
func (v Vec3i) Vec() v3.Vec {
	return v3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// Less orders vectors by Z, then Y, then X. It gives chunk and cell keys a
// stable iteration order.
func (v Vec3i) Less(o Vec3i) bool {
	if v.Z != o.Z {
		return v.Z < o.Z
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.X < o.X
}

func mod(a, k int) int {
	m := a % k
	if m < 0 {
		m += k
	}
	return m
}
