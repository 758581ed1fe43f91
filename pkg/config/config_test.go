package config

import (
	"math"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load("testdata/strata.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkSize != 8 || cfg.UnitSize != 0.5 || cfg.Workers != 2 || cfg.CacheChunks != 64 {
		t.Errorf("top-level fields not loaded: %+v", cfg)
	}
	if cfg.Terrain.Seed != 42 || cfg.Terrain.Octaves != 4 || cfg.Terrain.HeightScale != 30 {
		t.Errorf("terrain fields not loaded: %+v", cfg.Terrain)
	}

	def := Default()
	if cfg.SpawnSearchChunks != def.SpawnSearchChunks {
		t.Errorf("spawn_search_chunks = %d, want default %d", cfg.SpawnSearchChunks, def.SpawnSearchChunks)
	}
	if cfg.Terrain.Frequency != def.Terrain.Frequency || cfg.Terrain.ZOffset != def.Terrain.ZOffset {
		t.Errorf("absent terrain keys should keep defaults: %+v", cfg.Terrain)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("  ")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	if _, err := Parse([]byte("chunk_size: [1, 2")); err == nil {
		t.Fatal("expected YAML syntax error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, "chunk_size"},
		{"negative chunk size", func(c *Config) { c.ChunkSize = -4 }, "chunk_size"},
		{"huge chunk size", func(c *Config) { c.ChunkSize = MaxChunkSize + 1 }, "chunk_size"},
		{"zero unit size", func(c *Config) { c.UnitSize = 0 }, "unit_size"},
		{"NaN unit size", func(c *Config) { c.UnitSize = math.NaN() }, "unit_size"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"negative cache", func(c *Config) { c.CacheChunks = -1 }, "cache_chunks"},
		{"zero spawn search", func(c *Config) { c.SpawnSearchChunks = 0 }, "spawn_search_chunks"},
		{"bad terrain", func(c *Config) { c.Terrain.Octaves = 0 }, "octaves"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.ChunkSize = 0
	cfg.Workers = -2
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"chunk_size", "workers"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("chunk_size: 1000\n"))
	if err == nil || !strings.Contains(err.Error(), "chunk_size") {
		t.Fatalf("Parse = %v, want chunk_size error", err)
	}
}
