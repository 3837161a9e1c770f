// Package tracing opens OpenTelemetry child spans for traced requests only.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var noopSpan = trace.SpanFromContext(context.Background())

// Scope is a named tracer. Start never creates root spans, and when a prefix
// is set it ignores span names outside it.
type Scope struct {
	tracer trace.Tracer
	prefix string
}

func NewScope(instrumentation, prefix string) Scope {
	return Scope{tracer: otel.Tracer(instrumentation), prefix: prefix}
}

func (s Scope) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !s.Enabled(name) || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return s.tracer.Start(ctx, name, opts...)
}

// Enabled reports whether name would get a span under a traced parent.
func (s Scope) Enabled(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	return s.prefix == "" || strings.HasPrefix(name, s.prefix)
}
