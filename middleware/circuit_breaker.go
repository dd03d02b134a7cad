package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing, reject calls
	CircuitHalfOpen                     // Testing if recovered
)

// String returns the string representation of a CircuitState.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	FailureThreshold int           // Consecutive failures before opening
	SuccessThreshold int           // Successes in half-open to close
	OpenDuration     time.Duration // How long to stay open

	// Trip decides which errors count as failures. Defaults to IsRetryable, so
	// a 404 or a rejected request does not open the circuit.
	Trip func(error) bool
}

// DefaultCircuitBreakerConfig returns sensible circuit breaker defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenDuration:     30 * time.Second,
	}
}

// ErrCircuitOpen is returned while the circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker open: too many failures")

// WithCircuitBreaker stops calling the runtime after repeated transient
// failures and tries it again after OpenDuration.
func WithCircuitBreaker(config CircuitBreakerConfig) Middleware {
	if config.Trip == nil {
		config.Trip = IsRetryable
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}

	var (
		mu          sync.Mutex
		state       CircuitState
		failures    int
		successes   int
		lastFailure time.Time
	)

	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			mu.Lock()
			if state == CircuitOpen && time.Since(lastFailure) > config.OpenDuration {
				state = CircuitHalfOpen
				successes = 0
			}
			if state == CircuitOpen {
				mu.Unlock()
				return nil, ErrCircuitOpen
			}
			mu.Unlock()

			resp, err := next(ctx, req)

			mu.Lock()
			defer mu.Unlock()

			if err != nil && config.Trip(err) {
				failures++
				lastFailure = time.Now()
				if state == CircuitHalfOpen || failures >= config.FailureThreshold {
					state = CircuitOpen
				}
				return nil, err
			}

			if state == CircuitHalfOpen {
				successes++
				if successes >= config.SuccessThreshold {
					state = CircuitClosed
					failures = 0
				}
			} else {
				failures = 0
			}
			return resp, err
		}
	}
}
