// Package engine evaluates terrain scripts. A script is a small Lisp
// program, run in a zygomys sandbox, whose builtins describe the noise
// field and the chunking of a world:
//
//	(terrain :seed 7 :octaves 4 :height-scale 20)
//	(chunks :size 16 :cache 256)
//	(spawn :search 32)
//
// Evaluation yields a config.Config. Settings a script does not mention
// keep their defaults.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/strata/pkg/config"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal error in a script: a parse error, a runtime
// error in user code, or settings that do not validate.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine runs terrain scripts. It is safe for concurrent use; every
// evaluation gets a fresh sandbox, and only the most recent one may
// deliver a result.
type Engine struct {
	// Timeout bounds one evaluation. Zero means EvalTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source and returns the configuration it describes.
//
// Return semantics:
//   - On success: config + nil errors + nil error
//   - On parse/eval/validation failure: nil config + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (e *Engine) Evaluate(source string) (*config.Config, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with a caller-supplied context. Cancelling ctx
// abandons the evaluation the same way a timeout does.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*config.Config, []EvalError, error) {
	gen := e.begin()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()

		cfg, evalErrs, err := e.evaluate(source)
		ch <- evalResult{cfg: cfg, errors: evalErrs, err: err}
	}()

	return e.await(ctx, gen, ch)
}

func (e *Engine) evaluate(source string) (*config.Config, []EvalError, error) {
	cfg := config.Default()
	if strings.TrimSpace(source) == "" {
		return &cfg, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, &cfg)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	return &cfg, nil, nil
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ...".
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError turns a zygomys error into EvalErrors, keeping the line
// number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
