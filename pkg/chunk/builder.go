package chunk

import (
	"fmt"
	"log"

	"github.com/alitto/pond/v2"
	"github.com/chazu/strata/pkg/density"
	"github.com/chazu/strata/pkg/extract"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/lattice"
	"github.com/chazu/strata/pkg/winding"
	"github.com/pkg/errors"
)

// Builder runs the sample, scan, extract and wind pipeline for one chunk.
// A Builder is safe for concurrent use as long as its fields are not
// modified.
type Builder struct {
	Field density.Field
	Size  int
	Scale float64

	// Pool, when set, spreads lattice slabs and cell layers over workers.
	Pool pond.Pool

	Logger *log.Logger
}

type cellSurface struct {
	pos   geom.Vec3i
	polys []geom.Polygon
}

type layerResult struct {
	cells  []cellSurface
	issues []Issue
	err    error
}

// Build constructs the chunk at pos, which must be aligned to Size.
//
// Anomalies in the samples are recorded in the chunk's Diagnostics. A patch
// the extractor should never have produced is a bug, and Build panics on it.
func (b *Builder) Build(pos geom.Vec3i) *Chunk {
	if !pos.IsAligned(b.Size) {
		panic(fmt.Sprintf("chunk: position %s is not aligned to %d", pos, b.Size))
	}

	sampler := lattice.Sampler{Field: b.Field, Size: b.Size, Scale: b.Scale, Pool: b.Pool}
	l := sampler.Sample(pos)

	layers := make([]layerResult, b.Size)
	lattice.Each(b.Pool, b.Size, func(z int) {
		layers[z] = buildLayer(l, z)
	})

	c := &Chunk{
		Position: pos,
		Size:     b.Size,
		Surfaces: make(map[geom.Vec3i][]geom.Polygon),
	}
	for _, layer := range layers {
		if layer.err != nil {
			panic(fmt.Sprintf("chunk %s: %+v", pos, layer.err))
		}
		for _, cs := range layer.cells {
			c.Surfaces[cs.pos] = cs.polys
		}
		c.Diagnostics.Issues = append(c.Diagnostics.Issues, layer.issues...)
	}
	c.seal()

	if n := len(c.Diagnostics.Issues); n > 0 && b.Logger != nil {
		b.Logger.Printf("chunk %s: skipped %d zero-sample cells, dropped %d degenerate patches",
			pos, c.Diagnostics.Count(ReasonZeroSample), c.Diagnostics.Count(ReasonDegenerateNormal))
	}
	return c
}

func buildLayer(l *lattice.Lattice, z int) layerResult {
	scan := extract.ScanLayer(l, z)

	var out layerResult
	for _, cell := range scan.Degenerate {
		out.issues = append(out.issues, Issue{Cell: cell, Reason: ReasonZeroSample})
	}
	for i := range scan.Active {
		cell := &scan.Active[i]
		var polys []geom.Polygon
		for _, patch := range extract.ExtractCell(&cell.Samples) {
			poly, err := winding.Resolve(patch)
			switch {
			case err == nil:
				polys = append(polys, poly)
			case errors.Is(err, winding.ErrDegenerateNormal):
				out.issues = append(out.issues, Issue{Cell: cell.Pos, Reason: ReasonDegenerateNormal})
			case out.err == nil:
				out.err = errors.Wrapf(err, "cell %s", cell.Pos)
			}
		}
		if len(polys) > 0 {
			out.cells = append(out.cells, cellSurface{pos: cell.Pos, polys: polys})
		}
	}
	return out
}
