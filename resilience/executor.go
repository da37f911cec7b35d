package resilience

import (
	"context"
	"time"
)

// Executor composes the guards around one backend.
//
// Order, outermost first: rate limiter, bulkhead, circuit breaker, retry,
// timeout. Each retry attempt gets its own deadline, and the breaker sees
// the outcome of the whole retry sequence.
type Executor struct {
	rateLimiter    *RateLimiter
	bulkhead       *Bulkhead
	circuitBreaker *CircuitBreaker
	retry          *Retry
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor. With no options it calls op directly.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.circuitBreaker = cb }
}

// WithRetry adds retries.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithRateLimiter adds a rate limiter.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.rateLimiter = rl }
}

// WithBulkhead adds a concurrency cap.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = NewTimeout(d) }
}

// Config describes an executor declaratively. Nil sections are disabled.
type Config struct {
	Timeout        time.Duration
	Retry          *RetryConfig
	CircuitBreaker *CircuitBreakerConfig
	RateLimit      *RateLimiterConfig
	Bulkhead       *BulkheadConfig
}

// DefaultConfig is the guard set used for cloud secret backends: a per-call
// timeout, three attempts with exponential backoff, and a breaker that opens
// after five consecutive failures.
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
		Retry: &RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Jitter:       true,
		},
		CircuitBreaker: &CircuitBreakerConfig{
			MaxFailures:  5,
			ResetTimeout: 30 * time.Second,
		},
	}
}

// NewExecutorFromConfig builds an executor from cfg.
func NewExecutorFromConfig(cfg Config) *Executor {
	var opts []ExecutorOption
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	if cfg.Retry != nil {
		opts = append(opts, WithRetry(NewRetry(*cfg.Retry)))
	}
	if cfg.CircuitBreaker != nil {
		opts = append(opts, WithCircuitBreaker(NewCircuitBreaker(*cfg.CircuitBreaker)))
	}
	if cfg.RateLimit != nil {
		opts = append(opts, WithRateLimiter(NewRateLimiter(*cfg.RateLimit)))
	}
	if cfg.Bulkhead != nil {
		opts = append(opts, WithBulkhead(NewBulkhead(*cfg.Bulkhead)))
	}
	return NewExecutor(opts...)
}

// CircuitBreaker returns the configured breaker, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker {
	return e.circuitBreaker
}

// Execute runs op through every configured guard.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op

	if e.timeout != nil {
		inner := run
		run = func(ctx context.Context) error { return e.timeout.Execute(ctx, inner) }
	}
	if e.retry != nil {
		inner := run
		run = func(ctx context.Context) error { return e.retry.Execute(ctx, inner) }
	}
	if e.circuitBreaker != nil {
		inner := run
		run = func(ctx context.Context) error { return e.circuitBreaker.Execute(ctx, inner) }
	}
	if e.bulkhead != nil {
		inner := run
		run = func(ctx context.Context) error { return e.bulkhead.Execute(ctx, inner) }
	}
	if e.rateLimiter != nil {
		inner := run
		run = func(ctx context.Context) error { return e.rateLimiter.Execute(ctx, inner) }
	}

	return run(ctx)
}
