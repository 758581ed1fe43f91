// Package density defines the scalar fields the terrain is carved from.
// A field maps a world-space point to a signed value: negative is solid,
// zero or positive is empty. Fields must be pure functions of the point so
// that neighboring chunks agree on every shared sample.
package density

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Field is a pure, deterministic density function. Implementations must be
// safe for concurrent use.
type Field interface {
	Sample(p v3.Vec) float64
}

// FieldFunc adapts an ordinary function to the Field interface.
type FieldFunc func(p v3.Vec) float64

// Sample calls f(p).
func (f FieldFunc) Sample(p v3.Vec) float64 {
	return f(p)
}

// Plane is flat ground: empty above Height (smaller z), solid below.
type Plane struct {
	Height float64
}

// Sample returns Height - z.
func (p Plane) Sample(q v3.Vec) float64 {
	return p.Height - q.Z
}

// Constant returns the same value everywhere. A negative constant is a fully
// solid world, a positive one is all air.
type Constant float64

// Sample returns the constant.
func (c Constant) Sample(v3.Vec) float64 {
	return float64(c)
}

// Sphere is a solid ball in empty space.
type Sphere struct {
	Center v3.Vec
	Radius float64
}

// Sample returns the distance from the surface, negative inside.
func (s Sphere) Sample(p v3.Vec) float64 {
	return p.Sub(s.Center).Length() - s.Radius
}

// SampleInto evaluates f at every point and writes the values to out, which
// must be at least as long as pts.
func SampleInto(f Field, pts []v3.Vec, out []float64) {
	for i, p := range pts {
		out[i] = f.Sample(p)
	}
}

// Compile-time interface check.
var _ sdf.SDF3 = SDF{}

// SDF exposes a Field over a bounded region as an sdfx SDF3, so sdfx
// renderers can polygonize the same surface. The sign conventions agree:
// sdfx treats negative values as inside the solid.
type SDF struct {
	Field Field
	Box   sdf.Box3
}

// Evaluate samples the wrapped field.
func (s SDF) Evaluate(p v3.Vec) float64 {
	return s.Field.Sample(p)
}

// BoundingBox returns the region the field is rendered over.
func (s SDF) BoundingBox() sdf.Box3 {
	return s.Box
}

// finite reports whether v is a usable sample.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
