// Package observe provides observability primitives for secret resolution.
//
// It is a pure instrumentation library: a JSON structured Logger with
// automatic redaction, OpenTelemetry tracer and meter setup, lookup metrics,
// and a Middleware that wraps each secret backend call. No secret values are
// ever recorded; only provider, operation, and secret name.
package observe
