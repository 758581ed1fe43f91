package geom

// Box is an integer region of world space. Min is inclusive, Max is exclusive.
type Box struct {
	Min, Max Vec3i
}

// Empty reports whether the box contains no points.
func (b Box) Empty() bool {
	return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p Vec3i) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// ChunkPositions returns the aligned position of every chunk of the given
// size that overlaps the box, ordered by Z, then Y, then X.
func (b Box) ChunkPositions(size int) []Vec3i {
	if b.Empty() || size <= 0 {
		return nil
	}
	lo := b.Min.Align(size)
	hi := b.Max.Sub(Vec3i{1, 1, 1}).Align(size)

	var out []Vec3i
	for z := lo.Z; z <= hi.Z; z += size {
		for y := lo.Y; y <= hi.Y; y += size {
			for x := lo.X; x <= hi.X; x += size {
				out = append(out, Vec3i{x, y, z})
			}
		}
	}
	return out
}
