package secret

import (
	"errors"
	"time"

	"github.com/jonwraymond/designops/cache"
	"github.com/jonwraymond/designops/observe"
	"github.com/jonwraymond/designops/resilience"
)

type options struct {
	logger      observe.Logger
	middleware  *observe.Middleware
	cachePolicy cache.Policy
	cache       cache.Cache
	policy      FailurePolicy
	executor    *resilience.Executor
	lookup      LookupFunc
}

// Option configures a Resolver.
type Option func(*options)

// WithLogger sets the logger for resolver decisions. Default: the
// middleware's logger, or a no-op logger.
func WithLogger(l observe.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMiddleware wraps every backend call with tracing, metrics, and logging.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(o *options) { o.middleware = mw }
}

// WithCachePolicy sets capacity, TTL, and write invalidation of the
// built-in memory cache.
func WithCachePolicy(p cache.Policy) Option {
	return func(o *options) { o.cachePolicy = p }
}

// WithCache replaces the built-in memory cache. The invalidation mode is
// still taken from the cache policy.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithFailurePolicy selects fallback or strict handling of backend failures.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithExecutor runs backend calls through guards such as timeout, retry,
// and circuit breaker.
func WithExecutor(e *resilience.Executor) Option {
	return func(o *options) { o.executor = e }
}

// WithLookup sets the environment lookup used by the fallback.
func WithLookup(fn LookupFunc) Option {
	return func(o *options) { o.lookup = fn }
}

// DefaultExecutor returns the guards used for cloud backends by New:
// resilience.DefaultConfig plus a waiting rate limiter and a bulkhead sized
// below the providers' per-client request quotas. Not-found answers do not
// count against the circuit breaker.
func DefaultExecutor() *resilience.Executor {
	cfg := resilience.DefaultConfig()
	cfg.CircuitBreaker.IsFailure = func(err error) bool {
		return err != nil && !errors.Is(err, ErrNotFound)
	}
	cfg.RateLimit = &resilience.RateLimiterConfig{Rate: 50, Burst: 10, Wait: true, MaxWait: 5 * time.Second}
	cfg.Bulkhead = &resilience.BulkheadConfig{MaxConcurrent: 10, MaxWait: 5 * time.Second}
	return resilience.NewExecutorFromConfig(cfg)
}
