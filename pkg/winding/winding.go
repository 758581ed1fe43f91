// Package winding orders the unordered crossing points of a surface patch
// into a consistently wound polygon.
package winding

import (
	"math"
	"sort"

	"github.com/chazu/strata/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

var (
	// ErrMalformedPatch means a patch has fewer than three points. The
	// extractor never produces one, so seeing it is a programming error.
	ErrMalformedPatch = errors.New("winding: patch has fewer than three points")

	// ErrDegenerateNormal means the edge normals of a patch sum to zero
	// and no winding direction can be derived.
	ErrDegenerateNormal = errors.New("winding: patch normals cancel out")
)

// Resolve orders points counter-clockwise around their mean normal. The
// input is not modified.
//
// Each vertex, taken relative to the centroid, is projected onto the plane
// orthogonal to the mean normal and measured as an angle from the first
// projected vertex; sorting by that angle yields the winding.
func Resolve(points []geom.Point) (geom.Polygon, error) {
	if len(points) < 3 {
		return nil, errors.Wrapf(ErrMalformedPatch, "got %d", len(points))
	}
	poly := make(geom.Polygon, len(points))
	copy(poly, points)

	n := poly.MeanNormal()
	if n.Length() == 0 {
		return nil, errors.WithStack(ErrDegenerateNormal)
	}
	c := poly.Centroid()

	angles := make([]float64, len(poly))
	var head v3.Vec
	haveHead := false
	for i, pt := range poly {
		p := project(pt.Vertex.Sub(c), n)
		if p.Length() == 0 {
			// On the normal axis; any angle orders it consistently.
			continue
		}
		p = p.Normalize()
		if !haveHead {
			head, haveHead = p, true
		}
		angles[i] = angle(head, p, n)
	}

	idx := make([]int, len(poly))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return angles[idx[a]] < angles[idx[b]] })

	out := make(geom.Polygon, len(poly))
	for i, j := range idx {
		out[i] = poly[j]
	}
	return out, nil
}

// project removes the component of v along the unit vector n.
func project(v, n v3.Vec) v3.Vec {
	return n.Cross(v.Cross(n))
}

// angle returns the counter-clockwise angle from head to v around n, in
// [0, 2π). head and v must be unit vectors orthogonal to n.
func angle(head, v, n v3.Vec) float64 {
	cos := math.Max(-1, math.Min(1, head.Dot(v)))
	theta := math.Acos(cos)
	if head.Cross(v).Dot(n) < 0 {
		theta = 2*math.Pi - theta
	}
	return theta
}
