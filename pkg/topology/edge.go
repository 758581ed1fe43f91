package topology

import "fmt"

// Edge identifies one of the twelve cube edges. Edges 0-3 run along X,
// 4-7 along Y, 8-11 along Z.
type Edge uint8

// NumEdges is the number of cube edges.
const NumEdges = 12

// EdgeMask is a bitmask over the twelve edges.
type EdgeMask uint16

// Has reports whether e is in the mask.
func (m EdgeMask) Has(e Edge) bool {
	return m&(1<<e) != 0
}

// With returns the mask plus e.
func (m EdgeMask) With(e Edge) EdgeMask {
	return m | 1<<e
}

// Axis returns 0, 1 or 2 for edges along X, Y or Z.
func (e Edge) Axis() int {
	return int(e) / 4
}

func (e Edge) String() string {
	if e >= NumEdges {
		return fmt.Sprintf("Edge(%d)", int(e))
	}
	a, b := edgeEnds[e][0], edgeEnds[e][1]
	return fmt.Sprintf("%s-%s", a, b)
}

// edgeEnds lists the endpoints of every edge, lower corner first.
var edgeEnds = [NumEdges][2]Corner{
	{C000, C100}, {C010, C110}, {C001, C101}, {C011, C111}, // X
	{C000, C010}, {C100, C110}, {C001, C011}, {C101, C111}, // Y
	{C000, C001}, {C100, C101}, {C010, C011}, {C110, C111}, // Z
}
