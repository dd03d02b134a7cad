package core

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// shared is the state a ClientFactory hands to every Client and builder it
// produces. It is read-only after construction.
type shared struct {
	runtime   Runtime
	telemetry TelemetryHook
	newID     func() MessageID
}

// ClientOption configures a ClientFactory or a standalone Client.
type ClientOption func(*shared)

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h TelemetryHook) ClientOption {
	return func(s *shared) {
		if h != nil {
			s.telemetry = h
		}
	}
}

// WithIDGenerator sets the function used to pick message ids when neither the
// scope nor the caller supplies one.
func WithIDGenerator(fn func() MessageID) ClientOption {
	return func(s *shared) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func newShared(rt Runtime, opts []ClientOption) *shared {
	s := &shared{
		runtime:   rt,
		telemetry: NoopTelemetryHook{},
		newID:     func() MessageID { return MessageID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClientFactory owns one Runtime and produces a fresh Client per action.
// ClientFactory is safe for concurrent use.
type ClientFactory struct {
	shared *shared
}

// NewClientFactory creates a factory around rt.
func NewClientFactory(rt Runtime, opts ...ClientOption) *ClientFactory {
	return &ClientFactory{shared: newShared(rt, opts)}
}

// Runtime returns the shared runtime.
func (f *ClientFactory) Runtime() Runtime {
	return f.shared.runtime
}

// BuildClient returns a Client bound to ctx that shares f's runtime.
// It performs no I/O and cannot fail.
func BuildClient[C ContextConverter](f *ClientFactory, ctx C) *Client[C] {
	return &Client[C]{shared: f.shared, context: ctx}
}

// NewClient creates a standalone Client around rt without a factory.
func NewClient[C ContextConverter](rt Runtime, ctx C, opts ...ClientOption) *Client[C] {
	return &Client[C]{shared: newShared(rt, opts), context: ctx}
}

// Client is the entry point for exactly one action.
// Every action method consumes the Client: the first call returns a usable
// builder, later calls return builders whose Execute fails with
// ErrClientConsumed without reaching the runtime.
type Client[C ContextConverter] struct {
	shared  *shared
	context C
	used    atomic.Bool
}

// Context returns the context the client was built with.
func (c *Client[C]) Context() C {
	return c.context
}

// Runtime returns the runtime the client dispatches through.
func (c *Client[C]) Runtime() Runtime {
	return c.shared.runtime
}

// SendMessage returns a builder that sends content to the scoped chat.
func (c *Client[C]) SendMessage(content MessageContent) *SendMessageBuilder {
	return newSendMessageBuilder(c.consume(), content)
}

// SendTextMessage returns a builder that sends a text message.
// It is equivalent to SendMessage(TextContent{Text: text}).
func (c *Client[C]) SendTextMessage(text string) *SendMessageBuilder {
	return c.SendMessage(TextContent{Text: text})
}

// CreateChannel returns a builder that creates a channel in the scoped community.
func (c *Client[C]) CreateChannel(name string, isPublic bool) *CreateChannelBuilder {
	return newCreateChannelBuilder(c.consume(), name, isPublic)
}

// DeleteChannel returns a builder that deletes a channel from the scoped community.
func (c *Client[C]) DeleteChannel(channelID ChannelID) *DeleteChannelBuilder {
	return newDeleteChannelBuilder(c.consume(), channelID)
}

// ChatDetails returns a builder that fetches the scoped chat's details.
func (c *Client[C]) ChatDetails() *ChatDetailsBuilder {
	return newChatDetailsBuilder(c.consume())
}

// ChatEvents returns a builder that fetches the events selected by criteria.
func (c *Client[C]) ChatEvents(criteria EventsSelectionCriteria) *ChatEventsBuilder {
	return newChatEventsBuilder(c.consume(), criteria)
}

// consume converts the context to canonical form and marks the client used.
func (c *Client[C]) consume() *builder {
	b := &builder{
		shared:  c.shared,
		context: c.context.ToActionContext(),
	}
	if !c.used.CompareAndSwap(false, true) {
		b.err = ErrClientConsumed
	}
	return b
}

// builder holds what every action builder shares.
type builder struct {
	shared    *shared
	context   ActionContext
	err       error
	submitted atomic.Bool
}

// Context returns the canonical context the action will run with.
func (b *builder) Context() ActionContext {
	return b.context
}

// begin moves the builder to its terminal state.
func (b *builder) begin() error {
	if b.err != nil {
		return b.err
	}
	if !b.submitted.CompareAndSwap(false, true) {
		return ErrAlreadySubmitted
	}
	return nil
}

func (b *builder) runtimeID() string {
	return b.shared.runtime.ID()
}

// dispatch calls the runtime with telemetry and converts failures into
// InternalErrors.
func dispatch[T any](ctx context.Context, b *builder, action ActionKind, async bool, call func(context.Context) (T, error)) (T, error) {
	runtimeID := b.runtimeID()
	start := time.Now()

	b.shared.telemetry.OnActionStart(ActionStartEvent{
		Runtime: runtimeID,
		Action:  action,
		Async:   async,
		Start:   start,
	})

	resp, err := call(ctx)
	err = asInternalError(action, runtimeID, err)

	b.shared.telemetry.OnActionEnd(ActionEndEvent{
		Runtime: runtimeID,
		Action:  action,
		Async:   async,
		Start:   start,
		End:     time.Now(),
		Err:     err,
	})

	if err != nil {
		var zero T
		return zero, err
	}
	return resp, nil
}
