package extract

import (
	"testing"

	"github.com/chazu/strata/pkg/density"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/lattice"
	"github.com/chazu/strata/pkg/topology"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// config builds corner samples from a bitmask of empty corners: set bits
// are +1 (empty), clear bits are -1 (solid).
func config(empty topology.CornerSet) Samples {
	var s Samples
	for k := topology.Corner(0); k < topology.NumCorners; k++ {
		if empty.Has(k) {
			s[k] = 1
		} else {
			s[k] = -1
		}
	}
	return s
}

func set(corners ...topology.Corner) topology.CornerSet {
	var s topology.CornerSet
	for _, c := range corners {
		s = s.With(c)
	}
	return s
}

func normalSum(p Patch) v3.Vec {
	var sum v3.Vec
	for _, pt := range p {
		sum = sum.Add(pt.Normal)
	}
	return sum
}

func TestCrosses(t *testing.T) {
	assert.True(t, Crosses(1, -1))
	assert.True(t, Crosses(-0.25, 3))
	assert.False(t, Crosses(1, 2))
	assert.False(t, Crosses(-1, -2))
	assert.False(t, Crosses(0, -1), "a zero sample is not a strict crossing")
}

func TestInterpolate(t *testing.T) {
	v := Interpolate(v3.Vec{}, v3.Vec{Z: 1}, 0.5, -0.5)
	assert.InDelta(t, 0.5, v.Z, 1e-12)

	v = Interpolate(v3.Vec{X: 1}, v3.Vec{}, 3, -1)
	assert.InDelta(t, 0.25, v.X, 1e-12)
}

func TestClassify(t *testing.T) {
	s := config(set(topology.C000, topology.C100, topology.C010, topology.C110))
	mask, zero := Classify(&s)
	assert.False(t, zero)
	for e := topology.Edge(0); e < topology.NumEdges; e++ {
		assert.Equal(t, e.Axis() == 2, mask.Has(e), "edge %s", e)
	}

	s[topology.C111] = 0
	_, zero = Classify(&s)
	assert.True(t, zero)
}

func TestExtractSingleEmptyCorner(t *testing.T) {
	s := config(set(topology.C000))
	patches := ExtractCell(&s)
	require.Len(t, patches, 1)
	require.Len(t, patches[0], 3)

	sum := normalSum(patches[0])
	assert.Equal(t, v3.Vec{X: 1, Y: 1, Z: 1}, sum)
	for _, pt := range patches[0] {
		assert.InDelta(t, 0.5, pt.Vertex.X+pt.Vertex.Y+pt.Vertex.Z, 1e-12)
	}
}

func TestExtractHalfCube(t *testing.T) {
	s := config(set(topology.C000, topology.C100, topology.C010, topology.C110))
	patches := ExtractCell(&s)
	require.Len(t, patches, 1)
	require.Len(t, patches[0], 4)
	for _, pt := range patches[0] {
		assert.Equal(t, v3.Vec{Z: 1}, pt.Normal)
		assert.InDelta(t, 0.5, pt.Vertex.Z, 1e-12)
	}
}

func TestExtractDiagonalEmptyCorners(t *testing.T) {
	// Two empty corners at opposite ends of a body diagonal: a single
	// polygon per cell would join them through solid rock.
	s := config(set(topology.C000, topology.C111))
	patches := ExtractCell(&s)
	require.Len(t, patches, 2)
	for _, p := range patches {
		assert.GreaterOrEqual(t, len(p), 3)
	}
	a, b := normalSum(patches[0]), normalSum(patches[1])
	assert.Less(t, a.Dot(b), 0.0, "patch normals should point in opposite-ish directions")
}

func TestExtractFaceDiagonal(t *testing.T) {
	s := config(set(topology.C000, topology.C110))
	patches := ExtractCell(&s)
	require.Len(t, patches, 2)
	for _, p := range patches {
		assert.Len(t, p, 3)
	}
}

func TestExtractDiagonalSolidCornersSplit(t *testing.T) {
	s := config(topology.AllCorners.Without(topology.C000).Without(topology.C111))
	patches := ExtractCell(&s)
	require.Len(t, patches, 2, "cancelling region should split per solid corner")
	for _, p := range patches {
		assert.Len(t, p, 3)
		assert.NotEqual(t, v3.Vec{}, normalSum(p))
	}
}

func TestExtractUniformCells(t *testing.T) {
	solid := config(0)
	assert.Empty(t, ExtractCell(&solid))
	empty := config(topology.AllCorners)
	assert.Empty(t, ExtractCell(&empty))
}

func TestExtractEveryConfiguration(t *testing.T) {
	for m := 1; m < 255; m++ {
		s := config(topology.CornerSet(m))
		mask, _ := Classify(&s)
		want := 0
		for e := topology.Edge(0); e < topology.NumEdges; e++ {
			if mask.Has(e) {
				want++
			}
		}

		patches := ExtractCell(&s)
		require.NotEmpty(t, patches, "config %08b", m)
		got := 0
		for _, p := range patches {
			got += len(p)
			assert.GreaterOrEqual(t, len(p), 3, "config %08b", m)
			assert.NotEqual(t, v3.Vec{}, normalSum(p), "config %08b: normals cancel", m)
			for _, pt := range p {
				assert.Equal(t, 1.0, pt.Normal.Length(), "config %08b: normal must be a unit edge", m)
			}
		}
		assert.Equal(t, want, got, "config %08b: every crossing edge recorded once", m)
	}
}

func TestScanPlane(t *testing.T) {
	l := (&lattice.Sampler{Field: density.Plane{Height: 4.5}, Size: 8}).Sample(geom.Vec3i{})
	out := Scan(l)
	assert.Empty(t, out.Degenerate)
	require.Len(t, out.Active, 64)
	for _, c := range out.Active {
		assert.Equal(t, 4, c.Pos.Z)
	}
}

func TestScanReportsZeroSamples(t *testing.T) {
	l := (&lattice.Sampler{Field: density.Plane{Height: 5}, Size: 8}).Sample(geom.Vec3i{})
	out := Scan(l)
	assert.Empty(t, out.Active)
	assert.Len(t, out.Degenerate, 128, "layers z=4 and z=5 touch the zero plane")
}
