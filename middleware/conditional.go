package middleware

import (
	"context"

	"github.com/petal-labs/ocbot/core"
)

// ForActions applies middleware only to the listed actions.
func ForActions(actions []core.ActionKind, middleware Middleware) Middleware {
	set := make(map[core.ActionKind]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}

	return func(next CallFunc) CallFunc {
		wrapped := middleware(next)
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			if set[req.Action()] {
				return wrapped(ctx, req)
			}
			return next(ctx, req)
		}
	}
}

// ExceptActions applies middleware to every action except the listed ones.
func ExceptActions(actions []core.ActionKind, middleware Middleware) Middleware {
	set := make(map[core.ActionKind]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}

	return func(next CallFunc) CallFunc {
		wrapped := middleware(next)
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			if !set[req.Action()] {
				return wrapped(ctx, req)
			}
			return next(ctx, req)
		}
	}
}
