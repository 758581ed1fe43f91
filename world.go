// Package strata generates chunked voxel terrain. A World owns the density
// field, the chunk store and the worker pool, and hands out chunks, spawn
// points and render-ready meshes.
package strata

import (
	"fmt"
	"log"
	"math"
	"os"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/chazu/strata/pkg/chunk"
	"github.com/chazu/strata/pkg/config"
	"github.com/chazu/strata/pkg/density"
	"github.com/chazu/strata/pkg/engine"
	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/mesh/sdfx"
	"github.com/chazu/strata/pkg/tessellate"
)

// World is the entry point for terrain generation. It is safe for
// concurrent use.
type World struct {
	cfg    config.Config
	field  *density.Terrain
	store  *chunk.Store
	pool   pond.Pool
	logger *log.Logger
	closed sync.Once
}

// DefaultLogger is used when a constructor is given a nil logger.
func DefaultLogger() *log.Logger {
	return log.New(os.Stdout, "[strata] ", log.LstdFlags|log.Lmicroseconds)
}

// NewWorld validates cfg and sets up an empty world. Call Close when done
// to release the worker pool.
func NewWorld(cfg config.Config, logger *log.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = DefaultLogger()
	}
	field, err := density.NewTerrain(cfg.Terrain)
	if err != nil {
		return nil, fmt.Errorf("strata: %w", err)
	}

	w := &World{cfg: cfg, field: field, logger: logger}
	if cfg.Workers > 0 {
		w.pool = pond.NewPool(cfg.Workers)
	}
	b := &chunk.Builder{
		Field:  field,
		Size:   cfg.ChunkSize,
		Scale:  cfg.UnitSize,
		Pool:   w.pool,
		Logger: logger,
	}
	w.store = chunk.NewStore(b, chunk.Options{
		Capacity:    cfg.CacheChunks,
		SpawnSearch: cfg.SpawnSearchChunks,
	})
	logger.Printf("world ready: chunk_size=%d unit_size=%g workers=%d cache_chunks=%d seed=%d",
		cfg.ChunkSize, cfg.UnitSize, cfg.Workers, cfg.CacheChunks, cfg.Terrain.Seed)
	return w, nil
}

// NewWorldFromFile loads a YAML config file. An empty path means defaults.
func NewWorldFromFile(path string, logger *log.Logger) (*World, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return NewWorld(cfg, logger)
}

// NewWorldFromScript evaluates a terrain script. Script errors come back as
// EvalErrors with a nil world; the error result is kept for fatal failures.
func NewWorldFromScript(source string, logger *log.Logger) (*World, []engine.EvalError, error) {
	if logger == nil {
		logger = DefaultLogger()
	}
	cfg, evalErrs, err := engine.NewEngine().Evaluate(source)
	if err != nil {
		logger.Printf("script fatal error: %v", err)
		return nil, nil, err
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs, nil
	}
	w, err := NewWorld(*cfg, logger)
	return w, nil, err
}

// Close stops the worker pool, waiting for running tasks. The world stays
// usable afterwards; chunks are then built on the calling goroutine.
func (w *World) Close() {
	w.closed.Do(func() {
		if w.pool != nil {
			w.pool.StopAndWait()
		}
	})
}

// Config returns the settings the world was built with.
func (w *World) Config() config.Config {
	return w.cfg
}

// Field returns the world's density field.
func (w *World) Field() density.Field {
	return w.field
}

// Chunk returns the chunk containing lattice point p, building it on first
// access.
func (w *World) Chunk(p geom.Vec3i) *chunk.Chunk {
	return w.store.Get(p)
}

// Stats returns the chunk store counters.
func (w *World) Stats() chunk.Stats {
	return w.store.Stats()
}

// SkyLevel returns a lattice z above any ground the terrain can produce.
func (w *World) SkyLevel() int {
	t := w.cfg.Terrain
	top := (t.ZOffset - t.Amplitude()) / w.cfg.UnitSize
	return int(math.Floor(top)) - 1
}

// Spawn returns the first surface cell in column (x, y), probing down from
// SkyLevel.
func (w *World) Spawn(x, y int) (geom.Vec3i, error) {
	return w.SpawnFrom(x, y, w.SkyLevel())
}

// SpawnFrom returns the first surface cell in column (x, y) at or below z.
func (w *World) SpawnFrom(x, y, z int) (geom.Vec3i, error) {
	p, err := w.store.SpawnPoint(x, y, z)
	if err != nil {
		return geom.Vec3i{}, fmt.Errorf("strata: spawn: %w", err)
	}
	return p, nil
}

// Meshes fan-triangulates every chunk overlapping box. Faces point out of
// the ground and vertices are scaled to world units.
func (w *World) Meshes(box geom.Box) ([]*mesh.Mesh, error) {
	return w.MeshesWith(box, mesh.Fan{Scale: w.cfg.UnitSize, Outward: true})
}

// ReferenceMeshes meshes box with sdfx marching cubes over the same field.
func (w *World) ReferenceMeshes(box geom.Box) ([]*mesh.Mesh, error) {
	return w.MeshesWith(box, &sdfx.Mesher{Field: w.field, Scale: w.cfg.UnitSize})
}

// MeshesWith meshes box with m.
func (w *World) MeshesWith(box geom.Box, m mesh.Mesher) ([]*mesh.Mesh, error) {
	meshes, err := tessellate.Tessellate(w.store, box, m)
	if err != nil {
		w.logger.Printf("tessellate error: %v", err)
		return nil, err
	}
	return meshes, nil
}
