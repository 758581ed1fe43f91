package density

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// TerrainParams configures a Terrain field.
type TerrainParams struct {
	Seed        int64   `yaml:"seed"`
	Alpha       float64 `yaml:"alpha"`        // octave amplitude falloff; larger is smoother
	Beta        float64 `yaml:"beta"`         // octave frequency multiplier
	Octaves     int32   `yaml:"octaves"`      // number of noise octaves
	Frequency   float64 `yaml:"frequency"`    // world units to noise units
	HeightScale float64 `yaml:"height_scale"` // noise amplitude in world units
	ZOffset     float64 `yaml:"z_offset"`     // depth of the mean ground level
}

// DefaultTerrainParams returns rolling hills about HeightScale deep. The
// half-unit ZOffset keeps integer lattice points, where Perlin noise is
// exactly zero, off the zero level set.
func DefaultTerrainParams() TerrainParams {
	return TerrainParams{
		Seed:        1,
		Alpha:       2,
		Beta:        2,
		Octaves:     3,
		Frequency:   1.0 / 24,
		HeightScale: 12,
		ZOffset:     0.5,
	}
}

// Validate reports the first unusable parameter.
func (p TerrainParams) Validate() error {
	switch {
	case p.Alpha <= 0 || !finite(p.Alpha):
		return fmt.Errorf("terrain: alpha must be positive, got %v", p.Alpha)
	case p.Beta <= 0 || !finite(p.Beta):
		return fmt.Errorf("terrain: beta must be positive, got %v", p.Beta)
	case p.Octaves <= 0:
		return fmt.Errorf("terrain: octaves must be positive, got %d", p.Octaves)
	case p.Frequency <= 0 || !finite(p.Frequency):
		return fmt.Errorf("terrain: frequency must be positive, got %v", p.Frequency)
	case !finite(p.HeightScale):
		return fmt.Errorf("terrain: height_scale must be finite, got %v", p.HeightScale)
	case !finite(p.ZOffset):
		return fmt.Errorf("terrain: z_offset must be finite, got %v", p.ZOffset)
	}
	return nil
}

// Amplitude bounds |noise * HeightScale| over all points. Each octave of
// the Perlin sum stays within [-1, 1] and octave i is divided by Alpha^i.
func (p TerrainParams) Amplitude() float64 {
	sum, scale := 0.0, 1.0
	for i := int32(0); i < p.Octaves; i++ {
		sum += 1 / scale
		scale *= p.Alpha
	}
	return sum * math.Abs(p.HeightScale)
}

// Terrain is coherent 3D noise biased by depth: noise(p)*HeightScale - z.
// Because the bias grows with z, every vertical column changes sign roughly
// once, giving mostly horizontal ground with overhangs where the noise
// dominates.
type Terrain struct {
	params TerrainParams
	noise  *perlin.Perlin
}

// NewTerrain builds a terrain field. The noise tables are computed once and
// only read afterwards, so the field is safe for concurrent use.
func NewTerrain(p TerrainParams) (*Terrain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Terrain{
		params: p,
		noise:  perlin.NewPerlin(p.Alpha, p.Beta, p.Octaves, p.Seed),
	}, nil
}

// Params returns the parameters the field was built with.
func (t *Terrain) Params() TerrainParams {
	return t.params
}

// Sample evaluates the field at a world point.
func (t *Terrain) Sample(p v3.Vec) float64 {
	q := p.MulScalar(t.params.Frequency)
	n := t.noise.Noise3D(q.X, q.Y, q.Z)
	return n*t.params.HeightScale - (p.Z - t.params.ZOffset)
}
