// Package resilience guards calls to remote secret backends.
//
// Guards can be used alone or composed with an Executor:
//
//   - Timeout: bounds each attempt with a context deadline.
//   - Retry: re-runs failed attempts with exponential or constant backoff.
//     Errors wrapped with Permanent (not-found, access denied) stop at once.
//   - CircuitBreaker: stops calling a backend after consecutive failures and
//     probes it again after ResetTimeout.
//   - RateLimiter: token bucket on golang.org/x/time/rate.
//   - Bulkhead: concurrency cap on golang.org/x/sync/semaphore.
//
// Usage:
//
//	exec := resilience.NewExecutorFromConfig(resilience.DefaultConfig())
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    value, err = backend.Resolve(ctx, name)
//	    return err
//	})
package resilience
