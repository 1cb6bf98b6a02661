package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	usecaseTracer = otel.Tracer("score-predictor/internal/usecase")

	// A span pulled from an empty context is the shared no-op span.
	// Returning it keeps call sites uniform without allocating.
	usecaseNoopSpan = trace.SpanFromContext(context.Background())
)

// startUsecaseSpan opens a child span only under a valid parent, so
// engine internals never emit standalone root spans.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name)
}
