package topology

import "fmt"

// Corner identifies one of the eight cube corners. Bit 0 is the X offset,
// bit 1 the Y offset, bit 2 the Z offset.
type Corner uint8

const (
	C000 Corner = iota // (0,0,0)
	C100               // (1,0,0)
	C010               // (0,1,0)
	C110               // (1,1,0)
	C001               // (0,0,1)
	C101               // (1,0,1)
	C011               // (0,1,1)
	C111               // (1,1,1)
)

// NumCorners is the number of cube corners.
const NumCorners = 8

func (c Corner) String() string {
	if c >= NumCorners {
		return fmt.Sprintf("Corner(%d)", int(c))
	}
	return fmt.Sprintf("C%d%d%d", c&1, (c>>1)&1, (c>>2)&1)
}

// CornerSet is a bitmask over the eight corners.
type CornerSet uint8

// AllCorners contains every corner.
const AllCorners CornerSet = 0xFF

// Has reports whether c is in the set.
func (s CornerSet) Has(c Corner) bool {
	return s&(1<<c) != 0
}

// With returns the set plus c.
func (s CornerSet) With(c Corner) CornerSet {
	return s | 1<<c
}

// Without returns the set minus c.
func (s CornerSet) Without(c Corner) CornerSet {
	return s &^ (1 << c)
}

// Empty reports whether the set has no corners.
func (s CornerSet) Empty() bool {
	return s == 0
}

// First returns the lowest-numbered corner in the set. The set must not be empty.
func (s CornerSet) First() Corner {
	for c := Corner(0); c < NumCorners; c++ {
		if s.Has(c) {
			return c
		}
	}
	panic("topology: First on empty CornerSet")
}
