// Package tracing starts package-scoped spans that attach to an existing trace.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var noopSpan = trace.SpanFromContext(context.Background())

// Tracer wraps an otel tracer with an optional span-name filter.
type Tracer struct {
	tracer trace.Tracer
	allow  func(name string) bool
}

// New returns a Tracer for the instrumentation scope name. A nil allow accepts every span name.
func New(scope string, allow func(name string) bool) Tracer {
	return Tracer{tracer: otel.Tracer(scope), allow: allow}
}

// Child starts a span only under a recorded parent. Untraced requests and
// background loops stay span-free, as do names the filter rejects.
func (t Tracer) Child(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, noopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if t.allow != nil && !t.allow(name) {
		return ctx, noopSpan
	}
	return t.tracer.Start(ctx, name, opts...)
}

// Root always starts a span, creating a new trace when ctx carries none.
func (t Tracer) Root(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}
