// Package lattice samples a density field on the (S+1)^3 corner lattice of
// one chunk. The result lives only for the duration of that chunk's build.
package lattice

import (
	"errors"

	"github.com/alitto/pond/v2"
	"github.com/chazu/strata/pkg/density"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/topology"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Lattice is a dense cube of density samples, (Size+1) points per side,
// stored X fastest, then Y, then Z.
type Lattice struct {
	Size   int
	Values []float64
}

// New allocates a zeroed lattice for a chunk of the given size.
func New(size int) *Lattice {
	n := size + 1
	return &Lattice{Size: size, Values: make([]float64, n*n*n)}
}

// Index returns the flat offset of lattice point (x, y, z).
func (l *Lattice) Index(x, y, z int) int {
	n := l.Size + 1
	return x + y*n + z*n*n
}

// At returns the sample at lattice point (x, y, z).
func (l *Lattice) At(x, y, z int) float64 {
	return l.Values[l.Index(x, y, z)]
}

// Corners returns the eight samples of a cell, indexed by topology.Corner.
func (l *Lattice) Corners(cell geom.Vec3i) [topology.NumCorners]float64 {
	var out [topology.NumCorners]float64
	for k := topology.Corner(0); k < topology.NumCorners; k++ {
		o := topology.Unit.Offset(k)
		out[k] = l.At(cell.X+o.X, cell.Y+o.Y, cell.Z+o.Z)
	}
	return out
}

// Sampler evaluates a field on chunk lattices. It holds no per-chunk state.
type Sampler struct {
	Field density.Field
	Size  int     // chunk size S
	Scale float64 // world units per lattice step; 0 means 1

	// Pool, when set, spreads Z slabs of the lattice across workers.
	Pool pond.Pool
}

// Sample evaluates the field at every lattice point of the chunk at pos.
// Point (x, y, z) samples world coordinate (pos + (x, y, z)) * Scale.
func (s *Sampler) Sample(pos geom.Vec3i) *Lattice {
	l := New(s.Size)
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	n := s.Size + 1

	slab := func(z int) {
		pts := make([]v3.Vec, 0, n*n)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				w := pos.Add(geom.Vec3i{X: x, Y: y, Z: z}).Vec()
				pts = append(pts, w.MulScalar(scale))
			}
		}
		start := l.Index(0, 0, z)
		density.SampleInto(s.Field, pts, l.Values[start:start+n*n])
	}

	Each(s.Pool, n, slab)
	return l
}

// Each calls fn(i) for every i in [0, n), spread over pool when it is set
// and running. fn must be safe to call again for the same i: work the pool
// could not finish, because it was stopped, is redone on the calling
// goroutine. A panic inside fn is re-raised in the caller.
func Each(pool pond.Pool, n int, fn func(i int)) {
	if pool == nil || pool.Stopped() {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	g := pool.NewGroup()
	for i := 0; i < n; i++ {
		g.Submit(func() { fn(i) })
	}
	err := g.Wait()
	switch {
	case err == nil:
	case errors.Is(err, pond.ErrPanic):
		panic(err)
	default:
		for i := 0; i < n; i++ {
			fn(i)
		}
	}
}
