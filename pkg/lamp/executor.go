package lamp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/urmzd/eyecare/pkg/device"
)

// DefaultTimeout bounds a single lamp call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Executor runs single lamp calls on a worker goroutine and turns their
// outcome into a boolean. It never touches proxy state.
type Executor struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewExecutor creates an Executor bounding every call by timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewExecutor(timeout time.Duration, logger zerolog.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout, logger: logger}
}

// Timeout returns the per-call timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Try runs fn and reports whether the lamp acknowledged it.
// Errors are logged under label; unexpected responses are not errors.
func (e *Executor) Try(ctx context.Context, label string, fn func() (Response, error)) bool {
	resp, err := dispatch(ctx, e.timeout, fn)
	if err != nil {
		e.logger.Error().Err(err).Msg(label)
		return false
	}

	e.logger.Debug().Strs("response", resp).Msg("Response received from lamp")

	return resp.OK()
}

// dispatch runs fn on its own goroutine and waits for the result, the
// context or the timeout. A call that never returns keeps its goroutine
// but no longer holds up the caller.
func dispatch[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", device.ErrTimeout, timeout)
		}
		return zero, ctx.Err()
	}
}
