package extract

import (
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/topology"
)

// Patch is the unordered set of crossings bounding one connected region of
// empty corners inside a cell. Winding is applied later.
type Patch []geom.Point

type crossing struct {
	empty, solid topology.Corner
}

// ExtractCell groups the crossings of one cell into patches.
//
// Corners are popped from an unvisited set one at a time. A popped empty
// corner seeds a depth-first walk over adjacent empty corners; each edge
// from a walked corner to a solid corner records one crossing. The walk's
// crossings form one patch, and the loop continues until every corner has
// been visited, so cells with several disjoint empty regions yield several
// patches.
//
// The walk uses fixed-size arrays only. Samples must not be exactly zero;
// callers filter such cells out with Classify.
func ExtractCell(s *Samples) []Patch {
	cube := topology.Unit
	var patches []Patch

	unvisited := topology.AllCorners
	for !unvisited.Empty() {
		seed := unvisited.First()
		unvisited = unvisited.Without(seed)
		if s[seed] < 0 {
			continue
		}

		var (
			stack [topology.NumCorners]topology.Corner
			found [topology.NumEdges]crossing
			top   = 1
			n     int
		)
		stack[0] = seed
		for top > 0 {
			top--
			cur := stack[top]
			for _, nb := range cube.Neighbors(cur) {
				switch {
				case s[nb] < 0:
					found[n] = crossing{empty: cur, solid: nb}
					n++
				case unvisited.Has(nb):
					unvisited = unvisited.Without(nb)
					stack[top] = nb
					top++
				}
			}
		}
		if n == 0 {
			continue
		}
		patches = appendPatches(patches, s, found[:n])
	}
	return patches
}

// appendPatches turns one empty region's crossings into patches. The edge
// normals of a region sum to zero only when its two solid corners sit at
// opposite ends of a body diagonal; that region is split into one patch per
// solid component so each patch has a usable mean normal.
func appendPatches(dst []Patch, s *Samples, found []crossing) []Patch {
	cube := topology.Unit

	var sum geom.Vec3i
	for _, c := range found {
		sum = sum.Add(cube.Offset(c.solid).Sub(cube.Offset(c.empty)))
	}
	if sum != (geom.Vec3i{}) {
		return append(dst, toPatch(s, found, nil, 0))
	}

	labels := solidComponents(s)
	var done uint8
	for _, c := range found {
		l := labels[c.solid]
		if done&(1<<l) != 0 {
			continue
		}
		done |= 1 << l
		dst = append(dst, toPatch(s, found, &labels, l))
	}
	return dst
}

// toPatch converts crossings to points. When labels is non-nil only
// crossings entering solid component want are kept.
func toPatch(s *Samples, found []crossing, labels *[topology.NumCorners]uint8, want uint8) Patch {
	cube := topology.Unit
	p := make(Patch, 0, len(found))
	for _, c := range found {
		if labels != nil && labels[c.solid] != want {
			continue
		}
		a, b := cube.OffsetVec(c.empty), cube.OffsetVec(c.solid)
		p = append(p, geom.Point{
			Vertex: Interpolate(a, b, s[c.empty], s[c.solid]),
			Normal: b.Sub(a),
		})
	}
	return p
}

// solidComponents labels each solid corner with the connected component of
// solid corners it belongs to. Empty corners keep label 0 and are never
// looked up.
func solidComponents(s *Samples) [topology.NumCorners]uint8 {
	cube := topology.Unit
	var labels [topology.NumCorners]uint8
	var stack [topology.NumCorners]topology.Corner
	next := uint8(1)

	for k := topology.Corner(0); k < topology.NumCorners; k++ {
		if s[k] >= 0 || labels[k] != 0 {
			continue
		}
		labels[k] = next
		stack[0] = k
		top := 1
		for top > 0 {
			top--
			cur := stack[top]
			for _, nb := range cube.Neighbors(cur) {
				if s[nb] < 0 && labels[nb] == 0 {
					labels[nb] = next
					stack[top] = nb
					top++
				}
			}
		}
		next++
	}
	return labels
}
