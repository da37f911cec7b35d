package observe

import (
	"context"
	"time"

	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// FetchFunc is the signature of a secret backend call.
type FetchFunc func(ctx context.Context, meta LookupMeta) (string, error)

// Middleware wraps backend calls with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe FetchFunc.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
//   - Secrets: returned values are passed through and never logged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced with no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(tracenoop.NewTracerProvider().Tracer("noop"))
	}
	if metrics == nil {
		metrics, _ = NewMetrics(nil)
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Metrics returns the middleware's metrics recorder.
func (m *Middleware) Metrics() Metrics {
	return m.metrics
}

// Wrap wraps fn with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn FetchFunc) FetchFunc {
	return func(ctx context.Context, meta LookupMeta) (string, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		value, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordLookup(ctx, meta, duration, err)

		fields := append(meta.Fields(), F("duration_ms", float64(duration.Milliseconds())))
		if err != nil {
			fields = append(fields, F("error", err.Error()))
			m.logger.Error(ctx, "secret backend call failed", fields...)
		} else {
			m.logger.Info(ctx, "secret backend call succeeded", fields...)
		}

		return value, err
	}
}
