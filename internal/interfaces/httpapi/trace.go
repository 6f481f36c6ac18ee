package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/statikk-crawler/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Probe routes are filtered out of tracing upstream, so helpers never start root spans.
var apiTracer = tracing.New("statikk-crawler/internal/interfaces/httpapi", shouldCreateHTTPAPISpan)

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return apiTracer.Child(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
