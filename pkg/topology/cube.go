package topology

import (
	"fmt"

	"github.com/chazu/strata/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Cube holds the corner offsets, edge endpoints and corner adjacency of a
// unit cube. The zero value is not usable; use Unit.
type Cube struct {
	offsets   [NumCorners]geom.Vec3i
	ends      [NumEdges][2]Corner
	neighbors [NumCorners][3]Corner
	via       [NumCorners][3]Edge
}

// Unit is the process-wide cube topology. It is built once at startup and
// only read afterwards.
var Unit = newCube()

func newCube() *Cube {
	c := &Cube{ends: edgeEnds}
	for i := Corner(0); i < NumCorners; i++ {
		c.offsets[i] = geom.Vec3i{X: int(i & 1), Y: int(i>>1) & 1, Z: int(i>>2) & 1}
	}
	var degree [NumCorners]int
	for e := Edge(0); e < NumEdges; e++ {
		a, b := c.ends[e][0], c.ends[e][1]
		c.neighbors[a][degree[a]], c.via[a][degree[a]] = b, e
		degree[a]++
		c.neighbors[b][degree[b]], c.via[b][degree[b]] = a, e
		degree[b]++
	}
	return c
}

// Offset returns the integer offset of a corner from the cell origin.
func (c *Cube) Offset(k Corner) geom.Vec3i {
	return c.offsets[k]
}

// OffsetVec returns the corner offset as a float vector.
func (c *Cube) OffsetVec(k Corner) v3.Vec {
	return c.offsets[k].Vec()
}

// Ends returns the two corners joined by an edge, lower corner first.
func (c *Cube) Ends(e Edge) (Corner, Corner) {
	return c.ends[e][0], c.ends[e][1]
}

// Neighbors returns the three corners adjacent to k.
func (c *Cube) Neighbors(k Corner) [3]Corner {
	return c.neighbors[k]
}

// NeighborEdges returns the edges leading from k to each of Neighbors(k),
// in the same order.
func (c *Cube) NeighborEdges(k Corner) [3]Edge {
	return c.via[k]
}

// EdgeBetween returns the edge joining a and b, if they are adjacent.
func (c *Cube) EdgeBetween(a, b Corner) (Edge, bool) {
	for i, n := range c.neighbors[a] {
		if n == b {
			return c.via[a][i], true
		}
	}
	return 0, false
}

// Validate checks the structural invariants of the cube: every edge joins
// two corners that differ in exactly one offset component, along the axis
// the edge index claims, and every corner has exactly three distinct
// neighbors. It returns one error per violation.
func (c *Cube) Validate() []error {
	var errs []error
	seen := make(map[[2]Corner]bool, NumEdges)
	for e := Edge(0); e < NumEdges; e++ {
		a, b := c.Ends(e)
		d := c.Offset(b).Sub(c.Offset(a))
		axis := -1
		switch d {
		case geom.Vec3i{X: 1}:
			axis = 0
		case geom.Vec3i{Y: 1}:
			axis = 1
		case geom.Vec3i{Z: 1}:
			axis = 2
		}
		if axis < 0 {
			errs = append(errs, fmt.Errorf("edge %d (%s): endpoints differ by %v, want a unit step", e, e, d))
		} else if axis != e.Axis() {
			errs = append(errs, fmt.Errorf("edge %d (%s): runs along axis %d, index claims %d", e, e, axis, e.Axis()))
		}
		key := [2]Corner{a, b}
		if seen[key] {
			errs = append(errs, fmt.Errorf("edge %d (%s): duplicate", e, e))
		}
		seen[key] = true
	}
	for k := Corner(0); k < NumCorners; k++ {
		n := c.Neighbors(k)
		if n[0] == n[1] || n[1] == n[2] || n[0] == n[2] {
			errs = append(errs, fmt.Errorf("corner %s: repeated neighbor in %v", k, n))
		}
		for i, m := range n {
			e := c.via[k][i]
			a, b := c.Ends(e)
			if !(a == k && b == m) && !(a == m && b == k) {
				errs = append(errs, fmt.Errorf("corner %s: neighbor %s not joined by edge %s", k, m, e))
			}
		}
	}
	return errs
}
