// Package otel traces ocbot actions with OpenTelemetry.
package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/ocbot/core"
)

const instrumentationName = "github.com/petal-labs/ocbot/contrib/otel"

// Hook emits one span per action, named "ocbot.<action>". Spans use the
// action's own start and end times, so fire-and-forget sends are traced
// over their full duration.
type Hook struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// Option configures a Hook.
type Option func(*Hook)

// WithTracerProvider uses tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Hook) { h.tracer = tp.Tracer(instrumentationName) }
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(h *Hook) { h.attrs = append(h.attrs, attrs...) }
}

// NewHook creates a tracing hook.
func NewHook(opts ...Option) *Hook {
	h := &Hook{tracer: otel.Tracer(instrumentationName)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnActionStart does nothing; the span is recorded once the outcome is known.
func (h *Hook) OnActionStart(core.ActionStartEvent) {}

// OnActionEnd records a span for the finished action.
func (h *Hook) OnActionEnd(e core.ActionEndEvent) {
	attrs := append([]attribute.KeyValue{
		attribute.String("ocbot.runtime", e.Runtime),
		attribute.String("ocbot.action", string(e.Action)),
		attribute.Bool("ocbot.async", e.Async),
	}, h.attrs...)

	_, span := h.tracer.Start(context.Background(), "ocbot."+string(e.Action),
		trace.WithTimestamp(e.Start),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.End))
}

var _ core.TelemetryHook = (*Hook)(nil)
