//go:build integration

package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/middleware"
	"github.com/petal-labs/ocbot/runtimes/httpapi"
)

func liveContext(t *testing.T, lt liveTarget) core.ActionContext {
	t.Helper()
	kind, id, _ := strings.Cut(lt.Chat, ":")
	var chat core.Chat
	switch kind {
	case "direct":
		chat = core.DirectChat(id)
	case "group":
		chat = core.GroupChat(id)
	default:
		t.Skipf("%s must be direct:<id> or group:<id> for runtime tests", envChat)
	}
	return core.ActionContext{
		BotID:      core.UserID(lt.Bot),
		APIGateway: lt.Gateway,
		Scope:      core.ChatScope(chat),
	}
}

func TestHTTPAPI_SendMessage(t *testing.T) {
	lt := requireTarget(t)
	rt := httpapi.New(lt.Token, httpapi.WithTimeout(30*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := core.NewClient(rt, liveContext(t, lt)).
		SendTextMessage("ocbot runtime integration").
		Execute(ctx)
	if err != nil {
		t.Fatalf("SendTextMessage() error = %v", err)
	}
	if result.Message == nil || result.Message.Pending {
		t.Fatalf("expected a delivered message, got %+v", result.Message)
	}
}

func TestHTTPAPI_FireAndForget(t *testing.T) {
	lt := requireTarget(t)
	rt := httpapi.New(lt.Token)
	done := make(chan error, 1)

	result, err := core.NewClient(rt, liveContext(t, lt)).
		SendTextMessage("ocbot fire and forget").
		FireAndForget().
		OnResponse(func(_ *core.SendMessageResponse, err error) { done <- err }).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Message.Pending {
		t.Error("fire-and-forget result should be pending")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("background send failed: %v", err)
		}
	case <-time.After(time.Minute):
		t.Fatal("background send never completed")
	}
}

func TestHTTPAPI_ChatEventsWithMiddleware(t *testing.T) {
	lt := requireTarget(t)
	rt := middleware.Wrap(httpapi.New(lt.Token),
		middleware.WithTimeout(30*time.Second),
		middleware.WithRetry(middleware.DefaultRetryPolicy()),
	)

	resp, err := core.NewClient(rt, liveContext(t, lt)).
		ChatEvents(core.EventsLatest{MaxEvents: 5}).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("ChatEvents() error = %v", err)
	}
	if len(resp.Events) > 5 {
		t.Errorf("got %d events, want at most 5", len(resp.Events))
	}
}

func TestHTTPAPI_Unauthorized(t *testing.T) {
	lt := requireTarget(t)
	rt := httpapi.New("not-a-token")

	_, err := core.NewClient(rt, liveContext(t, lt)).ChatDetails().Execute(context.Background())
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}
