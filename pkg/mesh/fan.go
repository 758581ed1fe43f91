package mesh

import (
	"github.com/chazu/strata/pkg/chunk"
	"github.com/go-gl/mathgl/mgl32"
)

// Compile-time interface check.
var _ Mesher = Fan{}

// Fan triangulates each chunk polygon as a fan around its first vertex,
// following the stored winding. Vertices are emitted chunk-local; the mesh
// Model places the chunk and scales lattice units to world units.
type Fan struct {
	// Scale is world units per lattice step; 0 means 1.
	Scale float64

	// Outward flips normals and winding so faces point into empty space
	// instead of into the ground.
	Outward bool
}

// ToMesh builds one mesh for the chunk. Every polygon vertex is emitted
// once, carrying the polygon's mean normal.
func (f Fan) ToMesh(c *chunk.Chunk) (*Mesh, error) {
	scale := float32(f.Scale)
	if scale == 0 {
		scale = 1
	}
	p := c.Position
	m := &Mesh{
		Name:  Name(c),
		Model: mgl32.Scale3D(scale, scale, scale).Mul4(mgl32.Translate3D(float32(p.X), float32(p.Y), float32(p.Z))),
	}

	for _, cell := range c.Cells() {
		base := cell.Vec()
		for _, poly := range c.Surfaces[cell] {
			n := poly.MeanNormal()
			if f.Outward {
				n = n.MulScalar(-1)
			}
			first := uint32(m.VertexCount())
			for _, pt := range poly {
				v := base.Add(pt.Vertex)
				m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
				m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			}
			for i := 1; i+1 < len(poly); i++ {
				a, b := first+uint32(i), first+uint32(i+1)
				if f.Outward {
					a, b = b, a
				}
				m.Indices = append(m.Indices, first, a, b)
			}
		}
	}
	return m, nil
}
