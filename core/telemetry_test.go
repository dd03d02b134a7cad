package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestActionEndEventDuration(t *testing.T) {
	start := time.Now()
	e := ActionEndEvent{Start: start, End: start.Add(150 * time.Millisecond)}

	if e.Duration() != 150*time.Millisecond {
		t.Errorf("Duration() = %v, want 150ms", e.Duration())
	}
}

func TestNoopTelemetryHookDoesNotPanic(t *testing.T) {
	var hook TelemetryHook = NoopTelemetryHook{}

	hook.OnActionStart(ActionStartEvent{Runtime: "mock", Action: ActionSendMessage, Start: time.Now()})
	hook.OnActionEnd(ActionEndEvent{Runtime: "mock", Action: ActionSendMessage, Err: errors.New("test")})
}

func TestMultiTelemetryHook(t *testing.T) {
	a := &mockTelemetryHook{}
	b := &mockTelemetryHook{}
	multi := MultiTelemetryHook{a, b}

	multi.OnActionStart(ActionStartEvent{Action: ActionChatDetails})
	multi.OnActionEnd(ActionEndEvent{Action: ActionChatDetails})

	for i, h := range []*mockTelemetryHook{a, b} {
		if len(h.startEvents) != 1 || len(h.endEvents) != 1 {
			t.Errorf("hook %d got %d/%d events, want 1/1", i, len(h.startEvents), len(h.endEvents))
		}
	}
}

func TestTelemetryReportsFailure(t *testing.T) {
	hook := &mockTelemetryHook{}
	rt := &mockRuntime{
		deleteFunc: func(ctx context.Context, req *DeleteChannelRequest) (*DeleteChannelResponse, error) {
			return nil, ErrNotFound
		},
	}
	client := BuildClient(NewClientFactory(rt, WithTelemetry(hook)), testCommunityContext())

	_ = client.DeleteChannel("gone").Execute(context.Background())

	ends := hook.ends()
	if len(ends) != 1 {
		t.Fatalf("got %d end events, want 1", len(ends))
	}
	if !errors.Is(ends[0].Err, ErrNotFound) {
		t.Errorf("end event error = %v, want ErrNotFound", ends[0].Err)
	}
	if ends[0].End.Before(ends[0].Start) {
		t.Error("end should not precede start")
	}
}

func TestTelemetryFireAndForgetIsAsync(t *testing.T) {
	hook := &mockTelemetryHook{}
	done := make(chan struct{})
	client := BuildClient(NewClientFactory(&mockRuntime{}, WithTelemetry(hook)), testCommandContext())

	_, err := client.SendTextMessage("hi").
		FireAndForget().
		OnResponse(func(*SendMessageResponse, error) { close(done) }).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	<-done

	ends := hook.ends()
	if len(ends) != 1 || !ends[0].Async {
		t.Errorf("expected one async end event, got %+v", ends)
	}
}

// TestEventStructsHaveNoSecretFields documents that events carry only
// operational metadata.
func TestEventStructsHaveNoSecretFields(t *testing.T) {
	_ = ActionStartEvent{
		Runtime: "httpapi",         // safe: runtime name
		Action:  ActionSendMessage, // safe: action kind
		Async:   true,              // safe: dispatch mode
		Start:   time.Now(),        // safe: timestamp
	}
	_ = ActionEndEvent{
		Runtime: "httpapi",
		Action:  ActionSendMessage,
		Start:   time.Now(),
		End:     time.Now(),
		Err:     nil, // safe: classification only
	}
}
