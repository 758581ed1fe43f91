package engine

import (
	"strings"
	"testing"

	"github.com/chazu/strata/pkg/config"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(terrain :seed 7)`,
			expect: `(terrain "__kw_seed" 7)`,
		},
		{
			name:   "multiple keywords",
			input:  `(chunks :size 16 :cache 64)`,
			expect: `(chunks "__kw_size" 16 "__kw_cache" 64)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`raw :text`",
			expect: "`raw :text`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def base-depth 3)`,
			expect: `(def base_depth 3)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `:z-offset -2`,
			expect: `"__kw_z-offset" -2`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  "; simple comment\n(spawn)",
			expect: "// simple comment\n(spawn)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

func evalOK(t *testing.T, source string) *config.Config {
	t.Helper()
	cfg, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	return cfg
}

func evalFails(t *testing.T, source, want string) {
	t.Helper()
	cfg, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if cfg != nil {
		t.Fatal("expected nil config on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	if !strings.Contains(evalErrs[0].Message, want) {
		t.Errorf("error %q does not mention %q", evalErrs[0].Message, want)
	}
}

func TestTerrainBuiltin(t *testing.T) {
	cfg := evalOK(t, `
(terrain :seed 42 :alpha 1.5 :beta 3 :octaves 5
         :frequency 0.05 :height-scale 30 :z-offset -2.5)
`)
	tp := cfg.Terrain
	if tp.Seed != 42 || tp.Octaves != 5 {
		t.Errorf("seed/octaves = %d/%d, want 42/5", tp.Seed, tp.Octaves)
	}
	if tp.Alpha != 1.5 || tp.Beta != 3 || tp.Frequency != 0.05 {
		t.Errorf("alpha/beta/frequency = %v/%v/%v", tp.Alpha, tp.Beta, tp.Frequency)
	}
	if tp.HeightScale != 30 || tp.ZOffset != -2.5 {
		t.Errorf("height-scale/z-offset = %v/%v", tp.HeightScale, tp.ZOffset)
	}
}

func TestChunksAndSpawnBuiltins(t *testing.T) {
	cfg := evalOK(t, `
(chunks :size 8 :unit-size 0.25 :workers 0 :cache 128)
(spawn :search 40)
`)
	if cfg.ChunkSize != 8 || cfg.UnitSize != 0.25 || cfg.Workers != 0 || cfg.CacheChunks != 128 {
		t.Errorf("chunks not applied: %+v", cfg)
	}
	if cfg.SpawnSearchChunks != 40 {
		t.Errorf("spawn search = %d, want 40", cfg.SpawnSearchChunks)
	}
}

func TestUnsetKeysKeepDefaults(t *testing.T) {
	cfg := evalOK(t, `(terrain :seed 9)`)
	def := config.Default()
	if cfg.ChunkSize != def.ChunkSize || cfg.Terrain.Octaves != def.Terrain.Octaves {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Terrain.Seed != 9 {
		t.Errorf("seed = %d, want 9", cfg.Terrain.Seed)
	}
}

func TestLaterCallsOverride(t *testing.T) {
	cfg := evalOK(t, `
(chunks :size 8 :cache 10)
(chunks :size 32)
`)
	if cfg.ChunkSize != 32 || cfg.CacheChunks != 10 {
		t.Errorf("size/cache = %d/%d, want 32/10", cfg.ChunkSize, cfg.CacheChunks)
	}
}

func TestVariablesAndArithmetic(t *testing.T) {
	cfg := evalOK(t, `
(def base-depth 10)
(terrain :height-scale (* base-depth 3) :octaves (+ 1 1))
`)
	if cfg.Terrain.HeightScale != 30 {
		t.Errorf("height-scale = %v, want 30", cfg.Terrain.HeightScale)
	}
	if cfg.Terrain.Octaves != 2 {
		t.Errorf("octaves = %d, want 2", cfg.Terrain.Octaves)
	}
}

func TestIntegralFloatAcceptedAsInt(t *testing.T) {
	cfg := evalOK(t, `(chunks :size 8.0)`)
	if cfg.ChunkSize != 8 {
		t.Errorf("size = %d, want 8", cfg.ChunkSize)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown keyword", `(terrain :roughness 3)`, "unknown keyword :roughness"},
		{"positional argument", `(chunks 16)`, "unexpected argument"},
		{"wrong type", `(terrain :seed "seven")`, "expected integer"},
		{"fractional int", `(chunks :size 8.5)`, "expected integer"},
		{"octaves out of range", `(terrain :octaves 9999999999)`, "out of range"},
		{"invalid chunk size", `(chunks :size 0)`, "chunk_size"},
		{"invalid frequency", `(terrain :frequency -1)`, "frequency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evalFails(t, tt.source, tt.want)
		})
	}
}

func TestSettingsPrint(t *testing.T) {
	cfg := config.Default()
	s := &sexpSettings{form: "chunks", cfg: &cfg}
	if got := s.SexpString(nil); !strings.Contains(got, ":size 16") {
		t.Errorf("SexpString = %q", got)
	}
	s = &sexpSettings{form: "spawn", cfg: &cfg}
	if got := s.SexpString(nil); got != "(spawn :search 16)" {
		t.Errorf("SexpString = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Full script example
// ---------------------------------------------------------------------------

func TestFullScript(t *testing.T) {
	source := `
;; Rolling hills with deep valleys.
(def hills 18)
(terrain :seed 1234
         :octaves 4
         :frequency 0.03
         :height-scale hills)

;; Small chunks, bounded cache.
(chunks :size 8 :cache 512)
(spawn :search 64)
`
	cfg := evalOK(t, source)
	if cfg.Terrain.Seed != 1234 || cfg.Terrain.HeightScale != 18 {
		t.Errorf("terrain = %+v", cfg.Terrain)
	}
	if cfg.ChunkSize != 8 || cfg.CacheChunks != 512 || cfg.SpawnSearchChunks != 64 {
		t.Errorf("config = %+v", cfg)
	}
}
