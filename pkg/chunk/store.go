package chunk

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/strata/pkg/geom"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// ErrNoSurface is returned by SpawnPoint when no surface was found within
// the search depth.
var ErrNoSurface = errors.New("chunk: no surface below point")

// DefaultSpawnSearch is the number of chunks SpawnPoint descends when
// Options.SpawnSearch is zero.
const DefaultSpawnSearch = 16

// Options tunes a Store.
type Options struct {
	// Capacity bounds the number of resident chunks. Zero keeps every chunk.
	Capacity int
	// SpawnSearch is how many chunks SpawnPoint descends before giving up.
	SpawnSearch int
}

// Stats are cumulative counters of a Store.
type Stats struct {
	Built      int64
	Hits       int64
	Evicted    int64
	Degenerate int64 // diagnostics recorded across all builds
	Resident   int
}

// cache holds resident chunks. *lru.Cache satisfies it for bounded stores.
type cache interface {
	Get(key geom.Vec3i) (*Chunk, bool)
	Peek(key geom.Vec3i) (*Chunk, bool)
	Add(key geom.Vec3i, c *Chunk) bool
	Len() int
}

// mapCache keeps every chunk it is given.
type mapCache struct {
	mu     sync.RWMutex
	chunks map[geom.Vec3i]*Chunk
}

func (m *mapCache) Get(key geom.Vec3i) (*Chunk, bool) {
	return m.Peek(key)
}

func (m *mapCache) Peek(key geom.Vec3i) (*Chunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.chunks[key]
	return c, ok
}

func (m *mapCache) Add(key geom.Vec3i, c *Chunk) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[key] = c
	return false
}

func (m *mapCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Store maps aligned chunk positions to built chunks, building on first
// access. Concurrent Gets for the same missing position build it once.
type Store struct {
	builder *Builder
	opts    Options
	chunks  cache
	group   singleflight.Group

	mu    sync.Mutex
	stats Stats
}

// NewStore returns an empty store that builds chunks with b.
func NewStore(b *Builder, opts Options) *Store {
	if opts.SpawnSearch <= 0 {
		opts.SpawnSearch = DefaultSpawnSearch
	}
	s := &Store{builder: b, opts: opts}
	if opts.Capacity > 0 {
		c, err := lru.NewWithEvict(opts.Capacity, s.evicted)
		if err != nil {
			panic(fmt.Sprintf("chunk: %v", err))
		}
		s.chunks = c
	} else {
		s.chunks = &mapCache{chunks: make(map[geom.Vec3i]*Chunk)}
	}
	return s
}

// ChunkSize returns S.
func (s *Store) ChunkSize() int {
	return s.builder.Size
}

// Key returns the aligned chunk position containing p.
func (s *Store) Key(p geom.Vec3i) geom.Vec3i {
	return p.Align(s.builder.Size)
}

// Get returns the chunk containing world lattice point p, building it if it
// is not resident. The build runs to completion before Get returns. If the
// build panics, every caller waiting on it panics with the same value.
func (s *Store) Get(p geom.Vec3i) *Chunk {
	key := s.Key(p)
	if c, ok := s.chunks.Get(key); ok {
		s.count(func(st *Stats) { st.Hits++ })
		return c
	}

	built := false
	v, _, _ := s.group.Do(key.String(), func() (any, error) {
		// Another caller may have finished this key since the lookup above.
		if c, ok := s.chunks.Peek(key); ok {
			return c, nil
		}
		c := s.builder.Build(key)
		built = true
		s.count(func(st *Stats) {
			st.Built++
			st.Degenerate += int64(len(c.Diagnostics.Issues))
		})
		s.chunks.Add(key, c)
		return c, nil
	})
	if !built {
		s.count(func(st *Stats) { st.Hits++ })
	}
	return v.(*Chunk)
}

// Peek returns the resident chunk containing p without building it or
// touching its recency.
func (s *Store) Peek(p geom.Vec3i) (*Chunk, bool) {
	return s.chunks.Peek(s.Key(p))
}

// Stats returns a snapshot of the counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	st := s.stats
	s.mu.Unlock()
	st.Resident = s.chunks.Len()
	return st
}

func (s *Store) count(f func(*Stats)) {
	s.mu.Lock()
	f(&s.stats)
	s.mu.Unlock()
}

func (s *Store) evicted(key geom.Vec3i, _ *Chunk) {
	s.count(func(st *Stats) { st.Evicted++ })
	if s.builder.Logger != nil {
		s.builder.Logger.Printf("evicted chunk %s", key)
	}
}

// SpawnPoint finds the first surface cell at or below (x, y, z), scanning
// towards increasing z one chunk at a time. Within a chunk only the column
// holding (x, y) is examined.
func (s *Store) SpawnPoint(x, y, z int) (geom.Vec3i, error) {
	start := geom.Vec3i{X: x, Y: y, Z: z}
	pos := s.Key(start)
	local := start.Sub(pos)
	size := s.builder.Size

	for i := 0; i < s.opts.SpawnSearch; i++ {
		c := s.Get(pos)
		if !c.Empty() {
			from := 0
			if i == 0 {
				from = local.Z
			}
			for lz := from; lz < size; lz++ {
				cell := geom.Vec3i{X: local.X, Y: local.Y, Z: lz}
				if len(c.Surfaces[cell]) > 0 {
					return pos.Add(cell), nil
				}
			}
		}
		pos.Z += size
	}
	return geom.Vec3i{}, fmt.Errorf("%w: column (%d, %d) from z=%d within %d chunks",
		ErrNoSurface, x, y, z, s.opts.SpawnSearch)
}
