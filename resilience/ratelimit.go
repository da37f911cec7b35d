package resilience

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig configures the token bucket in front of a backend.
type RateLimiterConfig struct {
	// Rate is tokens per second.
	// Default: 50
	Rate float64

	// Burst is the bucket size.
	// Default: 10
	Burst int

	// Wait blocks for a token instead of failing with ErrRateLimited.
	Wait bool

	// MaxWait bounds the blocking wait. Zero means wait as long as ctx allows.
	MaxWait time.Duration
}

// RateLimiter is a token bucket backed by golang.org/x/time/rate.
type RateLimiter struct {
	config  RateLimiterConfig
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter, filling in defaults.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 50
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	return &RateLimiter{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
	}
}

// Allow reports whether a call may proceed now, consuming a token if so.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}

// Execute runs op once a token is available.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if !rl.config.Wait {
		if !rl.limiter.Allow() {
			return ErrRateLimited
		}
		return op(ctx)
	}

	waitCtx := ctx
	if rl.config.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, rl.config.MaxWait)
		defer cancel()
	}
	if err := rl.limiter.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return op(ctx)
}

// Tokens returns the tokens currently available.
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.Tokens()
}
