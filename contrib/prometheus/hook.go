// Package prometheus exports ocbot action metrics to Prometheus.
//
// One Hook serves both layers: pass it to core.WithTelemetry to count
// actions as bot code sees them, and to middleware.WithMetrics to count each
// runtime call including retries.
//
//	hook := prometheus.NewHook()
//	rt := middleware.Wrap(httpapi.New(token), middleware.WithMetrics(hook))
//	factory := core.NewClientFactory(rt, core.WithTelemetry(hook))
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/middleware"
)

// Hook records action counts and latencies.
type Hook struct {
	// Actions counts completed actions.
	// Labels: runtime, action, status (success|error), mode (wait|async)
	Actions *prometheus.CounterVec

	// Duration measures action latency in seconds.
	// Labels: runtime, action
	Duration *prometheus.HistogramVec

	// Calls counts runtime calls seen by the metrics middleware.
	// Labels: runtime, action, status
	Calls *prometheus.CounterVec
}

// Option configures a Hook.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64
}

// WithRegisterer registers the metrics with r instead of the default registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithNamespace replaces the "ocbot" metric prefix.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets sets the latency histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// NewHook creates and registers the metrics. Registering twice with the same
// registerer panics, as with promauto.
func NewHook(opts ...Option) *Hook {
	o := options{
		registerer: prometheus.DefaultRegisterer,
		namespace:  "ocbot",
		buckets:    []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Hook{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "actions_total",
				Help:      "Total number of bot actions by runtime, action, status and mode",
			},
			[]string{"runtime", "action", "status", "mode"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: o.namespace,
				Name:      "action_duration_seconds",
				Help:      "Duration of bot actions in seconds",
				Buckets:   o.buckets,
			},
			[]string{"runtime", "action"},
		),
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace,
				Name:      "runtime_calls_total",
				Help:      "Total number of runtime calls including retries",
			},
			[]string{"runtime", "action", "status"},
		),
	}
	o.registerer.MustRegister(h.Actions, h.Duration, h.Calls)
	return h
}

// OnActionStart does nothing; actions are counted when they end.
func (h *Hook) OnActionStart(core.ActionStartEvent) {}

// OnActionEnd records the outcome and latency of an action.
func (h *Hook) OnActionEnd(e core.ActionEndEvent) {
	mode := "wait"
	if e.Async {
		mode = "async"
	}
	h.Actions.WithLabelValues(e.Runtime, string(e.Action), status(e.Err), mode).Inc()
	h.Duration.WithLabelValues(e.Runtime, string(e.Action)).Observe(e.Duration().Seconds())
}

// RecordCall counts one runtime call.
func (h *Hook) RecordCall(runtime string, action core.ActionKind, _ time.Duration, err error) {
	h.Calls.WithLabelValues(runtime, string(action), status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var (
	_ core.TelemetryHook          = (*Hook)(nil)
	_ middleware.MetricsCollector = (*Hook)(nil)
)
