// Package middleware wraps a core.Runtime with cross-cutting behavior such as
// logging, retries, rate limiting and metrics.
//
// Middleware compose around a single CallFunc and the wrapped value is itself
// a core.Runtime, so it can be handed to core.NewClientFactory unchanged:
//
//	rt := middleware.Wrap(httpapi.New(token),
//	    middleware.WithLogging(logger),
//	    middleware.WithRateLimit(5, 10),
//	    middleware.WithRetry(middleware.DefaultRetryPolicy()),
//	)
//	factory := core.NewClientFactory(rt)
//
// The first middleware given is the outermost.
package middleware

import (
	"context"
	"fmt"

	"github.com/petal-labs/ocbot/core"
)

// CallFunc performs one runtime call. req is one of the core request pointer
// types and the result is the matching response pointer.
type CallFunc func(ctx context.Context, req core.ActionRequest) (any, error)

// Middleware wraps a CallFunc to add behavior before and/or after the call.
type Middleware func(next CallFunc) CallFunc

// CallInfo describes the call in flight. It is stored in the context and
// accessible via CallInfoFromContext.
type CallInfo struct {
	// Runtime is the ID of the wrapped runtime.
	Runtime string

	// Action is the action being performed.
	Action core.ActionKind

	// Attempt counts retries, starting at 1.
	Attempt int

	// Metadata allows middleware to share data with each other.
	Metadata map[string]any
}

type callInfoKey struct{}

// ContextWithCallInfo adds CallInfo to a context.
func ContextWithCallInfo(ctx context.Context, ci *CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey{}, ci)
}

// CallInfoFromContext retrieves CallInfo from a context, or nil.
func CallInfoFromContext(ctx context.Context) *CallInfo {
	ci, _ := ctx.Value(callInfoKey{}).(*CallInfo)
	return ci
}

// Chain combines multiple middleware into one. The first is outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next CallFunc) CallFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Wrap returns rt with middlewares applied. The result keeps rt's ID.
func Wrap(rt core.Runtime, middlewares ...Middleware) core.Runtime {
	if len(middlewares) == 0 {
		return rt
	}
	return &wrappedRuntime{
		inner: rt,
		call:  Chain(middlewares...)(dispatch(rt)),
	}
}

// dispatch routes a request to the matching runtime method.
func dispatch(rt core.Runtime) CallFunc {
	return func(ctx context.Context, req core.ActionRequest) (any, error) {
		switch r := req.(type) {
		case *core.SendMessageRequest:
			return rt.SendMessage(ctx, r)
		case *core.CreateChannelRequest:
			return rt.CreateChannel(ctx, r)
		case *core.DeleteChannelRequest:
			return rt.DeleteChannel(ctx, r)
		case *core.ChatDetailsRequest:
			return rt.ChatDetails(ctx, r)
		case *core.ChatEventsRequest:
			return rt.ChatEvents(ctx, r)
		default:
			return nil, fmt.Errorf("%w: request type %T", core.ErrNotSupported, req)
		}
	}
}

// wrappedRuntime is a runtime with middleware applied.
type wrappedRuntime struct {
	inner core.Runtime
	call  CallFunc
}

func (w *wrappedRuntime) ID() string { return w.inner.ID() }

// Spawn delegates to the wrapped runtime when it schedules work itself.
func (w *wrappedRuntime) Spawn(fn func()) {
	if s, ok := w.inner.(core.Spawner); ok {
		s.Spawn(fn)
		return
	}
	go fn()
}

func (w *wrappedRuntime) do(ctx context.Context, req core.ActionRequest) (any, error) {
	ci := CallInfoFromContext(ctx)
	if ci == nil {
		ci = &CallInfo{Metadata: make(map[string]any)}
		ctx = ContextWithCallInfo(ctx, ci)
	}
	ci.Runtime = w.inner.ID()
	ci.Action = req.Action()
	return w.call(ctx, req)
}

// result converts an untyped response back to its concrete type.
func result[T any](v any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	resp, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected response type %T", core.ErrDecode, v)
	}
	return resp, nil
}

func (w *wrappedRuntime) SendMessage(ctx context.Context, req *core.SendMessageRequest) (*core.SendMessageResponse, error) {
	return result[core.SendMessageResponse](w.do(ctx, req))
}

func (w *wrappedRuntime) CreateChannel(ctx context.Context, req *core.CreateChannelRequest) (*core.CreateChannelResponse, error) {
	return result[core.CreateChannelResponse](w.do(ctx, req))
}

func (w *wrappedRuntime) DeleteChannel(ctx context.Context, req *core.DeleteChannelRequest) (*core.DeleteChannelResponse, error) {
	return result[core.DeleteChannelResponse](w.do(ctx, req))
}

func (w *wrappedRuntime) ChatDetails(ctx context.Context, req *core.ChatDetailsRequest) (*core.ChatDetailsResponse, error) {
	return result[core.ChatDetailsResponse](w.do(ctx, req))
}

func (w *wrappedRuntime) ChatEvents(ctx context.Context, req *core.ChatEventsRequest) (*core.ChatEventsResponse, error) {
	return result[core.ChatEventsResponse](w.do(ctx, req))
}

var (
	_ core.Runtime = (*wrappedRuntime)(nil)
	_ core.Spawner = (*wrappedRuntime)(nil)
)
