package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// ErrTimeout is returned when a call exceeds the WithTimeout limit.
var ErrTimeout = errors.New("action timed out")

// WithTimeout bounds each call. The call returns as soon as the limit passes
// even if the runtime ignores ctx.
func WithTimeout(d time.Duration) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			type outcome struct {
				resp any
				err  error
			}
			ch := make(chan outcome, 1)

			go func() {
				resp, err := next(ctx, req)
				ch <- outcome{resp, err}
			}()

			select {
			case o := <-ch:
				if o.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return nil, fmt.Errorf("%w after %v: %w", ErrTimeout, d, o.err)
				}
				return o.resp, o.err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return nil, fmt.Errorf("%w after %v: %w", ErrTimeout, d, ctx.Err())
				}
				return nil, ctx.Err()
			}
		}
	}
}
