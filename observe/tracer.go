package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Operations recorded by the secret resolver.
const (
	OpGet = "get"
	OpSet = "set"
)

// LookupMeta describes one backend call for telemetry purposes.
// It carries the secret name, never its value.
type LookupMeta struct {
	Provider  string // Backend kind: aws, azure, gcp, env
	Operation string // OpGet or OpSet
	Secret    string // Secret name
}

// SpanName returns the deterministic span name for this call.
// Format: secret.<operation>.<provider>
func (m LookupMeta) SpanName() string {
	op := m.Operation
	if op == "" {
		op = OpGet
	}
	return "secret." + op + "." + m.Provider
}

// Fields returns the log fields describing the call.
func (m LookupMeta) Fields() []Field {
	return []Field{
		F("provider", m.Provider),
		F("operation", m.operation()),
		F("secret_name", m.Secret),
	}
}

func (m LookupMeta) operation() string {
	if m.Operation == "" {
		return OpGet
	}
	return m.Operation
}

func (m LookupMeta) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("secret.provider", m.Provider),
		attribute.String("secret.operation", m.operation()),
	}
}

// Tracer wraps OpenTelemetry tracing with per-call span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, meta LookupMeta) (context.Context, trace.Span)
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &tracerImpl{tracer: t}
}

// StartSpan starts a span; the secret name is attached so traces can be
// correlated with logs.
func (t *tracerImpl) StartSpan(ctx context.Context, meta LookupMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(),
		attribute.String("secret.name", meta.Secret),
		attribute.Bool("secret.error", false),
	)
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("secret.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
