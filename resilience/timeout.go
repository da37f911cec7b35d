package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single backend call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Timeout bounds each call with a deadline.
type Timeout struct {
	d time.Duration
}

// NewTimeout creates a timeout guard. A non-positive d uses DefaultTimeout.
func NewTimeout(d time.Duration) *Timeout {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Timeout{d: d}
}

// Execute runs op with a derived deadline. SDK clients honour the context,
// so op is called inline. When the deadline set here fires, the error is
// reported as ErrTimeout; cancellation of the parent is passed through.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	err := op(callCtx)
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}

// Duration returns the configured deadline.
func (t *Timeout) Duration() time.Duration {
	return t.d
}
