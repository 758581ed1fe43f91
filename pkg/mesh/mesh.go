// Package mesh turns chunk surfaces into flat triangle arrays that a
// renderer can upload directly. The Mesher interface lets the polygon fan
// builder and the sdfx marching-cubes reference be swapped freely.
package mesh

import (
	"github.com/chazu/strata/pkg/chunk"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Vertices are in model space; Model maps them to world space.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which chunk this came from

	Model mgl32.Mat4 `json:"model"`
}

// Mesher converts one chunk into a mesh.
type Mesher interface {
	ToMesh(c *chunk.Chunk) (*Mesh, error)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i in model space.
func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// WorldVertex returns vertex i transformed by Model.
func (m *Mesh) WorldVertex(i int) mgl32.Vec3 {
	return m.Model.Mul4x1(m.Vertex(i).Vec4(1)).Vec3()
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
}

// Name labels a chunk mesh by its position.
func Name(c *chunk.Chunk) string {
	return "chunk " + c.Position.String()
}
