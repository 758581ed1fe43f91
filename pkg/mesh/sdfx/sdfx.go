// Package sdfx meshes chunks with the marching cubes renderer of the
// github.com/deadsy/sdfx CAD library. It samples the density field itself
// rather than reading chunk polygons, which makes it an independent check
// on where the extracted surface lies.
package sdfx

import (
	"github.com/chazu/strata/pkg/chunk"
	"github.com/chazu/strata/pkg/density"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"
)

// Compile-time interface check.
var _ mesh.Mesher = (*Mesher)(nil)

// defaultCellsPerChunk controls marching cubes resolution along the longest
// side of the chunk box.
const defaultCellsPerChunk = 32

// Mesher renders the field over each chunk's world box. Vertices are in
// world units and the mesh Model is the identity.
type Mesher struct {
	Field density.Field
	Scale float64 // world units per lattice step; 0 means 1
	Cells int     // marching cubes cells per chunk; 0 means defaultCellsPerChunk
}

// New returns a Mesher for f at unit scale.
func New(f density.Field) *Mesher {
	return &Mesher{Field: f}
}

// Box returns the world-space box covered by c.
func (m *Mesher) Box(c *chunk.Chunk) sdf.Box3 {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	lo := c.Position.Vec().MulScalar(scale)
	side := float64(c.Size) * scale
	return sdf.Box3{Min: lo, Max: lo.Add(v3.Vec{X: side, Y: side, Z: side})}
}

// ToMesh converts the chunk's region of the field to a triangle mesh using
// marching cubes.
func (m *Mesher) ToMesh(c *chunk.Chunk) (*mesh.Mesh, error) {
	cells := m.Cells
	if cells == 0 {
		cells = defaultCellsPerChunk
	}

	s := density.SDF{Field: m.Field, Box: m.Box(c)}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &mesh.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Name:     mesh.Name(c),
		Model:    mgl32.Ident4(),
	}, nil
}
