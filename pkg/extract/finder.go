package extract

import (
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/lattice"
	"github.com/chazu/strata/pkg/topology"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Samples holds the eight corner densities of one cell, indexed by
// topology.Corner.
type Samples = [topology.NumCorners]float64

// Crosses reports whether the zero level set passes strictly between two
// samples.
func Crosses(v0, v1 float64) bool {
	return v0*v1 < 0
}

// Interpolate estimates the zero crossing on the segment c0-c1 from the
// samples at its ends, assuming the density is linear along the segment.
func Interpolate(c0, c1 v3.Vec, v0, v1 float64) v3.Vec {
	t := v0 / (v0 - v1)
	return c0.Add(c1.Sub(c0).MulScalar(t))
}

// Classify returns the mask of crossing edges of a cell and whether any of
// its corners sampled exactly zero.
func Classify(s *Samples) (mask topology.EdgeMask, zero bool) {
	for k := 0; k < topology.NumCorners; k++ {
		if s[k] == 0 {
			zero = true
		}
	}
	for e := topology.Edge(0); e < topology.NumEdges; e++ {
		a, b := topology.Unit.Ends(e)
		if Crosses(s[a], s[b]) {
			mask = mask.With(e)
		}
	}
	return mask, zero
}

// Cell is an active cell: its local coordinate, corner samples and the mask
// of edges that cross the surface.
type Cell struct {
	Pos      geom.Vec3i
	Samples  Samples
	Crossing topology.EdgeMask
}

// Layer is the classification of one Z layer of cells.
type Layer struct {
	Active     []Cell
	Degenerate []geom.Vec3i // cells with an exactly-zero corner sample
}

// ScanLayer classifies every cell of layer z. Cells with a zero corner are
// reported as degenerate and never as active.
func ScanLayer(l *lattice.Lattice, z int) Layer {
	var out Layer
	for y := 0; y < l.Size; y++ {
		for x := 0; x < l.Size; x++ {
			pos := geom.Vec3i{X: x, Y: y, Z: z}
			s := l.Corners(pos)
			mask, zero := Classify(&s)
			switch {
			case zero:
				out.Degenerate = append(out.Degenerate, pos)
			case mask != 0:
				out.Active = append(out.Active, Cell{Pos: pos, Samples: s, Crossing: mask})
			}
		}
	}
	return out
}

// Scan classifies all S^3 cells of the lattice, layer by layer.
func Scan(l *lattice.Lattice) Layer {
	var out Layer
	for z := 0; z < l.Size; z++ {
		layer := ScanLayer(l, z)
		out.Active = append(out.Active, layer.Active...)
		out.Degenerate = append(out.Degenerate, layer.Degenerate...)
	}
	return out
}
