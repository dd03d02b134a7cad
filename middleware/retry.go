package middleware

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// RetryPolicy determines retry behavior for failed calls.
type RetryPolicy interface {
	// NextDelay returns the delay before the next retry attempt and whether to retry.
	// attempt starts at 0 for the first retry after the initial failure.
	NextDelay(attempt int, err error) (delay time.Duration, ok bool)
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts (default: 3)
	BaseDelay  time.Duration // Initial delay before first retry (default: 500ms)
	MaxDelay   time.Duration // Maximum delay cap (default: 10s)
	Jitter     float64       // Jitter factor 0.0-1.0 (default: 0.2)
}

// DefaultRetryPolicy returns exponential backoff with jitter, at most 3
// retries and a 10s delay cap.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{})
}

// NewRetryPolicy creates a retry policy with the given configuration.
// Zero fields take their defaults.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = 0.2
	}
	return &exponentialBackoff{cfg: cfg}
}

type exponentialBackoff struct {
	cfg RetryConfig
}

func (e *exponentialBackoff) NextDelay(attempt int, err error) (time.Duration, bool) {
	if attempt >= e.cfg.MaxRetries || !IsRetryable(err) {
		return 0, false
	}

	// baseDelay * 2^attempt
	delay := float64(e.cfg.BaseDelay) * math.Pow(2, float64(attempt))

	if e.cfg.Jitter > 0 {
		jitterRange := delay * e.cfg.Jitter
		delay += (rand.Float64()*2 - 1) * jitterRange
	}

	if delay > float64(e.cfg.MaxDelay) {
		delay = float64(e.cfg.MaxDelay)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay), true
}

// IsRetryable reports whether err is a transient failure worth retrying:
// network errors, rate limiting and server errors. Cancellation and
// client-side errors are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// A runtime's own request timeout arrives as ErrNetwork and is retried;
	// the caller's deadline is checked separately by WithRetry.
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, core.ErrNetwork) {
		return false
	}

	switch {
	case errors.Is(err, core.ErrUnauthorized),
		errors.Is(err, core.ErrBadRequest),
		errors.Is(err, core.ErrInvalidRequest),
		errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrFrozen),
		errors.Is(err, core.ErrDecode):
		return false
	case errors.Is(err, core.ErrNetwork),
		errors.Is(err, core.ErrRateLimited),
		errors.Is(err, core.ErrServer):
		return true
	}

	var ie *core.InternalError
	if errors.As(err, &ie) {
		return ie.Status == http.StatusTooManyRequests || (ie.Status >= 500 && ie.Status < 600)
	}
	return false
}

// WithRetry retries failed calls according to policy. Sends are safe to
// retry because the message id is fixed before the first attempt.
func WithRetry(policy RetryPolicy) Middleware {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			ci := CallInfoFromContext(ctx)
			for attempt := 0; ; attempt++ {
				if ci != nil {
					ci.Attempt = attempt + 1
				}

				resp, err := next(ctx, req)
				if err == nil {
					return resp, nil
				}
				if ctx.Err() != nil {
					return nil, err
				}

				delay, ok := policy.NextDelay(attempt, err)
				if !ok {
					return nil, err
				}

				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, err
				case <-timer.C:
				}
			}
		}
	}
}
