package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/strata/pkg/config"
)

// EvalTimeout is the limit for a single evaluation when Engine.Timeout is
// zero.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's timeout.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")
)

type evalResult struct {
	cfg    *config.Config
	errors []EvalError
	err    error
}

func (e *Engine) timeout() time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}
	return EvalTimeout
}

// begin numbers a new evaluation; every earlier one becomes stale.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

func (e *Engine) stale(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen != e.generation
}

// await collects the result of evaluation gen from ch. A sandbox that runs
// past the deadline is abandoned: ch is buffered, so its late result is
// dropped with the goroutine.
func (e *Engine) await(ctx context.Context, gen uint64, ch <-chan evalResult) (*config.Config, []EvalError, error) {
	limit := e.timeout()
	waitCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	select {
	case res := <-ch:
		if e.stale(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.cfg, res.errors, res.err
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("engine: evaluation canceled: %w", err)
		}
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}
