package core

import "time"

// TelemetryHook receives notifications about action lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// # Security Considerations
//
// Event types are designed to NEVER include sensitive data:
//   - Tokens and API keys are NEVER included (held as core.Secret)
//   - Message content is NEVER included
//   - Only operational metadata is exposed (runtime, action, timing, outcome)
//
// Never add fields that could contain tokens, message text or chat history.
type TelemetryHook interface {
	// OnActionStart is called when a builder hands a request to the runtime.
	OnActionStart(e ActionStartEvent)

	// OnActionEnd is called when the runtime call completes. For fire-and-forget
	// sends this happens after Execute has already returned.
	OnActionEnd(e ActionEndEvent)
}

// ActionStartEvent contains metadata about a starting action.
type ActionStartEvent struct {
	Runtime string     // Runtime identifier (e.g., "httpapi")
	Action  ActionKind // Action being dispatched
	Async   bool       // True for fire-and-forget submissions
	Start   time.Time  // When the action was submitted
}

// ActionEndEvent contains metadata about a completed action.
type ActionEndEvent struct {
	Runtime string
	Action  ActionKind
	Async   bool
	Start   time.Time
	End     time.Time
	Err     error // Error if the action failed, nil on success
}

// Duration returns the elapsed time for the action.
func (e ActionEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
type NoopTelemetryHook struct{}

// OnActionStart does nothing.
func (NoopTelemetryHook) OnActionStart(ActionStartEvent) {}

// OnActionEnd does nothing.
func (NoopTelemetryHook) OnActionEnd(ActionEndEvent) {}

// MultiTelemetryHook fans events out to several hooks in order.
type MultiTelemetryHook []TelemetryHook

// OnActionStart forwards the event to every hook.
func (m MultiTelemetryHook) OnActionStart(e ActionStartEvent) {
	for _, h := range m {
		h.OnActionStart(e)
	}
}

// OnActionEnd forwards the event to every hook.
func (m MultiTelemetryHook) OnActionEnd(e ActionEndEvent) {
	for _, h := range m {
		h.OnActionEnd(e)
	}
}

var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = MultiTelemetryHook{}
)
