package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/petal-labs/ocbot/core"
)

// RateLimiter paces calls. *rate.Limiter satisfies it.
type RateLimiter interface {
	// Wait blocks until the call may proceed or ctx is done.
	Wait(ctx context.Context) error
}

// WithRateLimit limits calls to ratePerSecond with the given burst.
// A burst below 1 is raised to 1.
func WithRateLimit(ratePerSecond float64, burst int) Middleware {
	if burst < 1 {
		burst = 1
	}
	return WithRateLimiter(rate.NewLimiter(rate.Limit(ratePerSecond), burst))
}

// WithRateLimiter paces calls with a custom limiter.
func WithRateLimiter(limiter RateLimiter) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: waiting for local limiter: %w", core.ErrRateLimited, err)
			}
			return next(ctx, req)
		}
	}
}
