// Package tessellate walks every chunk overlapping a region and produces
// triangle meshes with a mesh.Mesher. One mesh is produced per chunk that
// holds any surface.
package tessellate

import (
	"fmt"

	"github.com/chazu/strata/pkg/chunk"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

// Source supplies chunks by position. *chunk.Store implements it.
type Source interface {
	Get(p geom.Vec3i) *chunk.Chunk
	ChunkSize() int
}

// Compile-time interface check.
var _ Source = (*chunk.Store)(nil)

// Tessellate meshes every chunk overlapping box, in Z, Y, X order. Chunks
// that are entirely solid or entirely empty are skipped. Chunks not yet
// built are built through src; nothing is modified otherwise.
func Tessellate(src Source, box geom.Box, m mesh.Mesher) ([]*mesh.Mesh, error) {
	if src == nil || box.Empty() {
		return nil, nil
	}

	var meshes []*mesh.Mesh
	for _, pos := range box.ChunkPositions(src.ChunkSize()) {
		c := src.Get(pos)
		if c.Empty() {
			continue
		}
		msh, err := m.ToMesh(c)
		if err != nil {
			return nil, fmt.Errorf("tessellate: chunk %s: %w", pos, err)
		}
		if msh.IsEmpty() {
			continue
		}
		meshes = append(meshes, msh)
	}
	return meshes, nil
}

// Stats summarizes a set of meshes.
type Stats struct {
	Meshes    int
	Vertices  int
	Triangles int
}

// Summarize totals vertex and triangle counts.
func Summarize(meshes []*mesh.Mesh) Stats {
	st := Stats{Meshes: len(meshes)}
	for _, m := range meshes {
		st.Vertices += m.VertexCount()
		st.Triangles += m.TriangleCount()
	}
	return st
}
