// Package chunk builds fixed-size cubes of terrain surface from a density
// field and keeps them in a lazily populated store.
//
// A Chunk is immutable once built. Seams between neighbouring chunks line up
// because the density field is a pure function of world position; nothing is
// shared across chunk boundaries.
package chunk

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sort"

	"github.com/chazu/strata/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Reason names why a cell was left out of a chunk's surfaces.
type Reason string

const (
	// ReasonZeroSample marks a cell with a corner sampled at exactly zero.
	ReasonZeroSample Reason = "zero-sample"
	// ReasonDegenerateNormal marks a patch dropped because its edge
	// normals cancelled out.
	ReasonDegenerateNormal Reason = "degenerate-normal"
)

// Issue is one diagnostic record.
type Issue struct {
	Cell   geom.Vec3i
	Reason Reason
}

// Diagnostics lists the anomalies recovered from while building a chunk.
type Diagnostics struct {
	Issues []Issue
}

// Count returns how many issues have the given reason.
func (d Diagnostics) Count(r Reason) int {
	n := 0
	for _, is := range d.Issues {
		if is.Reason == r {
			n++
		}
	}
	return n
}

// Chunk is the surface of one S^3 block of cells. Surfaces is keyed by local
// cell; polygon vertices are in cell-local coordinates, so a consumer places
// them at Position + cell + vertex.
type Chunk struct {
	Position    geom.Vec3i
	Size        int
	Surfaces    map[geom.Vec3i][]geom.Polygon
	Diagnostics Diagnostics

	digest [32]byte
}

// Empty reports whether the chunk lies entirely on one side of the surface.
func (c *Chunk) Empty() bool {
	return len(c.Surfaces) == 0
}

// Cells returns the keys of Surfaces in Z, Y, X order.
func (c *Chunk) Cells() []geom.Vec3i {
	cells := make([]geom.Vec3i, 0, len(c.Surfaces))
	for cell := range c.Surfaces {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}

// PolygonCount returns the number of polygons over all cells.
func (c *Chunk) PolygonCount() int {
	n := 0
	for _, polys := range c.Surfaces {
		n += len(polys)
	}
	return n
}

// Digest is a sha256 over the position and surfaces. Two builds of the same
// position from the same field have equal digests.
func (c *Chunk) Digest() [32]byte {
	return c.digest
}

// WorldPolygons returns the polygons of one cell translated into world
// lattice coordinates.
func (c *Chunk) WorldPolygons(cell geom.Vec3i) []geom.Polygon {
	polys := c.Surfaces[cell]
	out := make([]geom.Polygon, len(polys))
	d := c.Position.Add(cell).Vec()
	for i, p := range polys {
		out[i] = p.Translate(d)
	}
	return out
}

func (c *Chunk) seal() {
	h := sha256.New()
	var tmp [8]byte
	putInt := func(v int) {
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(v)))
		h.Write(tmp[:])
	}
	putVec := func(v v3.Vec) {
		for _, f := range [3]float64{v.X, v.Y, v.Z} {
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
			h.Write(tmp[:])
		}
	}

	putInt(c.Position.X)
	putInt(c.Position.Y)
	putInt(c.Position.Z)
	for _, cell := range c.Cells() {
		putInt(cell.X)
		putInt(cell.Y)
		putInt(cell.Z)
		polys := c.Surfaces[cell]
		putInt(len(polys))
		for _, p := range polys {
			putInt(len(p))
			for _, pt := range p {
				putVec(pt.Vertex)
				putVec(pt.Normal)
			}
		}
	}
	copy(c.digest[:], h.Sum(nil))
}
