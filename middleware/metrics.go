package middleware

import (
	"context"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// MetricsCollector receives runtime call metrics.
type MetricsCollector interface {
	// RecordCall records a runtime call with its outcome.
	RecordCall(runtime string, action core.ActionKind, duration time.Duration, err error)
}

// WithMetrics records every call, including each retry attempt when placed
// inside WithRetry.
func WithMetrics(collector MetricsCollector) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			runtime := "unknown"
			if ci := CallInfoFromContext(ctx); ci != nil {
				runtime = ci.Runtime
			}

			start := time.Now()
			resp, err := next(ctx, req)
			collector.RecordCall(runtime, req.Action(), time.Since(start), err)

			return resp, err
		}
	}
}
