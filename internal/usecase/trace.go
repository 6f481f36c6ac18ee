package usecase

import (
	"context"

	"github.com/riskibarqy/statikk-crawler/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = tracing.New("statikk-crawler/internal/usecase", nil)

func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return usecaseTracer.Child(ctx, name)
}

// startRootSpan always opens a span; crawl runs start from the scheduler without a parent.
func startRootSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return usecaseTracer.Root(ctx, name, opts...)
}
