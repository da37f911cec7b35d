// Package health provides health checking primitives.
//
// A Checker reports a Result with one of three statuses: healthy, degraded,
// or unhealthy. An Aggregator runs named checkers concurrently and folds
// them into a Report whose status is the worst of its parts.
//
//	agg := health.NewAggregator(health.AggregatorConfig{Timeout: 5 * time.Second})
//	agg.Register("secrets", secret.NewHealthChecker(resolver))
//	report := agg.CheckAll(ctx)
//	if report.Status != health.StatusHealthy {
//	    ...
//	}
package health
