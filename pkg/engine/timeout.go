package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/viewfinder/pkg/stage"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when evaluation exceeds the engine's timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started before this
	// one finished.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult is the internal type used to pass evaluation results through channels.
type evalResult struct {
	stage  *stage.Stage
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds timeout or ctx is done first. It uses a
// generation counter to discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ctx context.Context,
	ch <-chan evalResult,
	timeout time.Duration,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*stage.Stage, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.stage, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)

	case <-ctx.Done():
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
	}
}
