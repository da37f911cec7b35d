package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric names.
const (
	MetricLookupTotal    = "secret.lookup.total"
	MetricLookupErrors   = "secret.lookup.errors"
	MetricLookupDuration = "secret.lookup.duration_ms"
	MetricFallbacks      = "secret.lookup.fallbacks"
	MetricCacheHits      = "secret.cache.hits"
)

// Metrics records secret lookup metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a backend call with duration and error status.
	RecordLookup(ctx context.Context, meta LookupMeta, duration time.Duration, err error)

	// RecordFallback records a resolution served by the environment fallback.
	RecordFallback(ctx context.Context, meta LookupMeta)

	// RecordCacheHit records a resolution served from cache.
	RecordCacheHit(ctx context.Context, meta LookupMeta)
}

type metricsImpl struct {
	totalCount    metric.Int64Counter
	errorCount    metric.Int64Counter
	fallbackCount metric.Int64Counter
	cacheHits     metric.Int64Counter
	durationHist  metric.Float64Histogram
}

// NewMetrics creates lookup instruments on meter. A nil meter yields no-op instruments.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("noop")
	}

	m := &metricsImpl{}
	var err error

	if m.totalCount, err = meter.Int64Counter(MetricLookupTotal,
		metric.WithDescription("Total number of secret backend calls"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}

	if m.errorCount, err = meter.Int64Counter(MetricLookupErrors,
		metric.WithDescription("Total number of failed secret backend calls"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	if m.fallbackCount, err = meter.Int64Counter(MetricFallbacks,
		metric.WithDescription("Resolutions served by the environment fallback"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}

	if m.cacheHits, err = meter.Int64Counter(MetricCacheHits,
		metric.WithDescription("Resolutions served from the in-memory cache"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return nil, err
	}

	if m.durationHist, err = meter.Float64Histogram(MetricLookupDuration,
		metric.WithDescription("Secret backend call duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta LookupMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

func (m *metricsImpl) RecordFallback(ctx context.Context, meta LookupMeta) {
	m.fallbackCount.Add(ctx, 1, metric.WithAttributes(meta.attributes()...))
}

func (m *metricsImpl) RecordCacheHit(ctx context.Context, meta LookupMeta) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(meta.attributes()...))
}
