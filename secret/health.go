package secret

import (
	"context"

	"github.com/jonwraymond/designops/health"
	"github.com/jonwraymond/designops/resilience"
)

// HealthCheckName is the name of the checker returned by NewHealthChecker.
const HealthCheckName = "secrets"

// NewHealthChecker reports the resolver's backend health.
//
// The environment backend is degraded. An open circuit breaker or a failed
// Ping is unhealthy.
func NewHealthChecker(r *Resolver) health.Checker {
	return health.NewCheckerFunc(HealthCheckName, func(ctx context.Context) health.Result {
		details := map[string]any{
			"provider":       r.ProviderName(),
			"failure_policy": r.FailurePolicy().String(),
			"cached":         r.CacheLen(),
		}

		if r.closed.Load() {
			return health.Unhealthy("resolver closed", ErrClosed).WithDetails(details)
		}
		if r.kind == KindEnv {
			return health.Degraded("secrets are read from environment variables").WithDetails(details)
		}

		if cb := r.exec.CircuitBreaker(); cb != nil {
			state := cb.State()
			details["circuit"] = state.String()
			if state == resilience.StateOpen {
				return health.Unhealthy("secret backend circuit open", resilience.ErrCircuitOpen).WithDetails(details)
			}
		}

		if p, ok := r.provider.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return health.Unhealthy("secret backend unreachable", err).WithDetails(details)
			}
		}
		return health.Healthy("secret backend reachable").WithDetails(details)
	})
}
