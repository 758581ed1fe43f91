package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/chazu/strata/pkg/config"
	zygo "github.com/glycerine/zygomys/zygo"
)

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys reads:
//
//  1. :keyword becomes the string "__kw_keyword", so keywords need no
//     global bindings.
//  2. kebab-case identifiers become snake_case; zygomys reads a hyphen
//     as subtraction.
//  3. ; comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"':
			j := skipQuoted(b, i, '"', true)
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := skipQuoted(b, i, '`', false)
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the literal opened at b[i].
func skipQuoted(b []byte, i int, quote byte, escapes bool) int {
	j := i + 1
	for j < len(b) && b[j] != quote {
		if escapes && b[j] == '\\' && j+1 < len(b) {
			j++
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// isKW reports whether s is a rewritten keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args into keyword and positional arguments. A keyword
// with no value after it maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt64 accepts integers and floats with no fractional part.
func toInt64(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) && math.Abs(v.Val) < 1<<53 {
			return int64(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// setter stores one keyword argument into a config field.
type setter func(zygo.Sexp) error

func floatField(dst *float64) setter {
	return func(s zygo.Sexp) error {
		f, err := toFloat64(s)
		if err == nil {
			*dst = f
		}
		return err
	}
}

func intField(dst *int) setter {
	return func(s zygo.Sexp) error {
		n, err := toInt64(s)
		if err == nil {
			*dst = int(n)
		}
		return err
	}
}

func int32Field(dst *int32) setter {
	return func(s zygo.Sexp) error {
		n, err := toInt64(s)
		if err != nil {
			return err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return fmt.Errorf("%d out of range", n)
		}
		*dst = int32(n)
		return nil
	}
}

func int64Field(dst *int64) setter {
	return func(s zygo.Sexp) error {
		n, err := toInt64(s)
		if err == nil {
			*dst = n
		}
		return err
	}
}

// applyArgs runs the setter of every keyword in args. Keywords are applied
// in sorted order so the first reported error does not depend on map order.
func applyArgs(fn string, args []zygo.Sexp, fields map[string]setter) error {
	pa := parseArgs(args)
	if len(pa.positional) > 0 {
		return fmt.Errorf("%s: unexpected argument %s", fn, pa.positional[0].SexpString(nil))
	}
	names := make([]string, 0, len(pa.kw))
	for name := range pa.kw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		set, ok := fields[name]
		if !ok {
			return fmt.Errorf("%s: unknown keyword :%s", fn, name)
		}
		if err := set(pa.kw[name]); err != nil {
			return fmt.Errorf("%s: %s: %w", fn, name, err)
		}
	}
	return nil
}

// sexpSettings is what the builtins return, so the REPL-style result of a
// script shows the settings it touched.
type sexpSettings struct {
	form string
	cfg  *config.Config
}

func (s *sexpSettings) SexpString(ps *zygo.PrintState) string {
	switch s.form {
	case "terrain":
		t := s.cfg.Terrain
		return fmt.Sprintf("(terrain :seed %d :octaves %d :frequency %g :height-scale %g)",
			t.Seed, t.Octaves, t.Frequency, t.HeightScale)
	case "chunks":
		return fmt.Sprintf("(chunks :size %d :unit-size %g :workers %d :cache %d)",
			s.cfg.ChunkSize, s.cfg.UnitSize, s.cfg.Workers, s.cfg.CacheChunks)
	}
	return fmt.Sprintf("(%s :search %d)", s.form, s.cfg.SpawnSearchChunks)
}
func (s *sexpSettings) Type() *zygo.RegisteredType { return nil }

// registerBuiltins installs the script builtins. Each builtin writes
// straight into cfg; a later call overrides an earlier one key by key.
//
// Source must go through preprocessSource first so keywords are
// recognizable.
func registerBuiltins(env *zygo.Zlisp, cfg *config.Config) {
	builtin := func(form string, fields map[string]setter) {
		env.AddFunction(form, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := applyArgs(form, args, fields); err != nil {
				return zygo.SexpNull, err
			}
			return &sexpSettings{form: form, cfg: cfg}, nil
		})
	}

	// (terrain :seed 7 :alpha 2 :beta 2 :octaves 3 :frequency 0.04
	//          :height-scale 12 :z-offset 0.5)
	t := &cfg.Terrain
	builtin("terrain", map[string]setter{
		"seed":         int64Field(&t.Seed),
		"alpha":        floatField(&t.Alpha),
		"beta":         floatField(&t.Beta),
		"octaves":      int32Field(&t.Octaves),
		"frequency":    floatField(&t.Frequency),
		"height-scale": floatField(&t.HeightScale),
		"z-offset":     floatField(&t.ZOffset),
	})

	// (chunks :size 16 :unit-size 1 :workers 4 :cache 256)
	builtin("chunks", map[string]setter{
		"size":      intField(&cfg.ChunkSize),
		"unit-size": floatField(&cfg.UnitSize),
		"workers":   intField(&cfg.Workers),
		"cache":     intField(&cfg.CacheChunks),
	})

	// (spawn :search 32)
	builtin("spawn", map[string]setter{
		"search": intField(&cfg.SpawnSearchChunks),
	})
}
