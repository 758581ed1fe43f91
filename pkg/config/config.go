// Package config holds the generation settings of a world: chunk size,
// lattice scale, worker count, cache bounds and terrain parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/chazu/strata/pkg/density"
	"gopkg.in/yaml.v3"
)

// MaxChunkSize bounds S. A 256 chunk already samples about 17M points.
const MaxChunkSize = 256

// Config is the full set of world generation settings. The YAML keys are
// snake_case.
type Config struct {
	ChunkSize         int                   `yaml:"chunk_size"`
	UnitSize          float64               `yaml:"unit_size"`
	Workers           int                   `yaml:"workers"`
	CacheChunks       int                   `yaml:"cache_chunks"`
	SpawnSearchChunks int                   `yaml:"spawn_search_chunks"`
	Terrain           density.TerrainParams `yaml:"terrain"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		ChunkSize:         16,
		UnitSize:          1,
		Workers:           runtime.NumCPU(),
		CacheChunks:       0,
		SpawnSearchChunks: 16,
		Terrain:           density.DefaultTerrainParams(),
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	cfg, err := Parse(b)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Keys that
// are absent keep their default values.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every field out of range.
func (c Config) Validate() error {
	var errs []error
	if c.ChunkSize <= 0 || c.ChunkSize > MaxChunkSize {
		errs = append(errs, fmt.Errorf("chunk_size must be in 1..%d, got %d", MaxChunkSize, c.ChunkSize))
	}
	if !(c.UnitSize > 0) {
		errs = append(errs, fmt.Errorf("unit_size must be positive, got %v", c.UnitSize))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.CacheChunks < 0 {
		errs = append(errs, fmt.Errorf("cache_chunks must not be negative, got %d", c.CacheChunks))
	}
	if c.SpawnSearchChunks <= 0 {
		errs = append(errs, fmt.Errorf("spawn_search_chunks must be positive, got %d", c.SpawnSearchChunks))
	}
	if err := c.Terrain.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
