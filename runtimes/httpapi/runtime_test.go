package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/runtimes"
)

func testContext() core.ActionContext {
	return core.ActionContext{
		BotID:      "bot-1",
		APIGateway: "http://unused.invalid",
		Scope:      core.ChatScope(core.GroupChat("group-1")),
		Initiator:  "user-1",
		Token:      core.NewSecret("ctx-token"),
	}
}

func TestSendMessageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/bot/send_message" {
			t.Errorf("Path = %q, want /bot/send_message", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer ctx-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("X-Request-Id should be set")
		}

		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if string(body["content"]) != `{"Text":{"text":"hello"}}` {
			t.Errorf("content = %s", body["content"])
		}
		if string(body["message_id"]) != `"m-1"` {
			t.Errorf("message_id = %s", body["message_id"])
		}
		if strings.Contains(string(body["context"]), "ctx-token") {
			t.Error("token must not appear in the body")
		}

		w.Header().Set("X-Request-Id", "req-abc")
		json.NewEncoder(w).Encode(sendMessageResult{
			MessageID:    "m-1",
			EventIndex:   12,
			MessageIndex: 4,
			Timestamp:    1700000000000,
		})
	}))
	defer server.Close()

	rt := New("runtime-token", WithBaseURL(server.URL))
	resp, err := rt.SendMessage(context.Background(), &core.SendMessageRequest{
		Context:   testContext(),
		Content:   core.TextContent{Text: "hello"},
		MessageID: "m-1",
		Finalised: true,
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if resp.MessageID != "m-1" || resp.EventIndex != 12 || resp.MessageIndex != 4 {
		t.Errorf("resp = %+v", resp)
	}
	if !resp.Timestamp.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("Timestamp = %v", resp.Timestamp)
	}
}

func TestRuntimeTokenFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer runtime-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Extra") != "1" {
			t.Error("extra header should be sent")
		}
		w.Write([]byte(`{"name":"general","member_count":3,"last_updated":1700000000000}`))
	}))
	defer server.Close()

	actx := testContext()
	actx.Token = core.NewSecret("")

	rt := New("runtime-token", WithBaseURL(server.URL), WithHeader("X-Extra", "1"))
	resp, err := rt.ChatDetails(context.Background(), &core.ChatDetailsRequest{Context: actx})
	if err != nil {
		t.Fatalf("ChatDetails() error = %v", err)
	}
	if resp.Name != "general" || resp.MemberCount != 3 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGatewayFromContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot/delete_channel" {
			t.Errorf("Path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	actx := testContext()
	actx.APIGateway = server.URL + "/"

	rt := New("")
	if _, err := rt.DeleteChannel(context.Background(), &core.DeleteChannelRequest{Context: actx, ChannelID: "c-1"}); err != nil {
		t.Fatalf("DeleteChannel() error = %v", err)
	}
}

func TestNoEndpoint(t *testing.T) {
	actx := testContext()
	actx.APIGateway = ""

	_, err := New("").ChatDetails(context.Background(), &core.ChatDetailsRequest{Context: actx})
	if !errors.Is(err, core.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantSentinel error
	}{
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad","code":"invalid"}}`, core.ErrBadRequest},
		{"unauthorized", http.StatusUnauthorized, `{}`, core.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, core.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"message":"no such channel"}`, core.ErrNotFound},
		{"frozen", http.StatusLocked, `{}`, core.ErrFrozen},
		{"rate limited", http.StatusTooManyRequests, `{}`, core.ErrRateLimited},
		{"server", http.StatusInternalServerError, `oops`, core.ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Request-Id", "req-err")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			rt := New("tok", WithBaseURL(server.URL))
			_, err := rt.DeleteChannel(context.Background(), &core.DeleteChannelRequest{Context: testContext(), ChannelID: "c"})

			var ie *core.InternalError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *core.InternalError, got %T", err)
			}
			if ie.Status != tt.status {
				t.Errorf("Status = %d, want %d", ie.Status, tt.status)
			}
			if ie.RequestID != "req-err" {
				t.Errorf("RequestID = %q, want req-err", ie.RequestID)
			}
			if ie.Action != core.ActionDeleteChannel || ie.Runtime != "httpapi" {
				t.Errorf("origin = %s/%s", ie.Runtime, ie.Action)
			}
			if !errors.Is(err, tt.wantSentinel) {
				t.Errorf("expected %v, got %v", tt.wantSentinel, err)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New("tok", WithBaseURL(url)).ChatDetails(context.Background(), &core.ChatDetailsRequest{Context: testContext()})
	if !errors.Is(err, core.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	_, err := New("tok", WithBaseURL(server.URL)).ChatDetails(context.Background(), &core.ChatDetailsRequest{Context: testContext()})
	if !errors.Is(err, core.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	rt := New("tok", WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	_, err := rt.ChatDetails(context.Background(), &core.ChatDetailsRequest{Context: testContext()})
	if !errors.Is(err, core.ErrNetwork) {
		t.Errorf("expected ErrNetwork on timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
}

func TestChatEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		json.NewDecoder(r.Body).Decode(&body)
		if !strings.HasPrefix(string(body["criteria"]), `{"Latest":`) {
			t.Errorf("criteria = %s", body["criteria"])
		}
		w.Write([]byte(`{
			"events": [
				{"index": 1, "timestamp": 1700000000000, "kind": "message",
				 "message": {"message_index": 0, "message_id": "m-1", "sender": "user-1", "content": {"Text": {"text": "hi"}}}},
				{"index": 2, "timestamp": 1700000001000, "kind": "participant_joined", "user": "user-2"}
			],
			"latest_event_index": 2
		}`))
	}))
	defer server.Close()

	rt := New("tok", WithBaseURL(server.URL))
	resp, err := rt.ChatEvents(context.Background(), &core.ChatEventsRequest{
		Context:  testContext(),
		Criteria: core.EventsLatest{MaxEvents: 10},
	})
	if err != nil {
		t.Fatalf("ChatEvents() error = %v", err)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(resp.Events))
	}
	msg := resp.Events[0].Message
	if msg == nil || msg.Content != (core.TextContent{Text: "hi"}) {
		t.Errorf("message = %+v", msg)
	}
	if resp.Events[1].User != "user-2" {
		t.Errorf("User = %q, want user-2", resp.Events[1].User)
	}
	if resp.LatestEventIndex != 2 {
		t.Errorf("LatestEventIndex = %d, want 2", resp.LatestEventIndex)
	}
}

func TestChatEventsEmptyCriteriaSkipsNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	rt := New("tok", WithBaseURL(server.URL))
	resp, err := rt.ChatEvents(context.Background(), &core.ChatEventsRequest{
		Context:  testContext(),
		Criteria: core.EventsByIndex{},
	})
	if err != nil {
		t.Fatalf("ChatEvents() error = %v", err)
	}
	if resp.Events == nil || len(resp.Events) != 0 {
		t.Errorf("Events = %v, want empty", resp.Events)
	}
	if called {
		t.Error("empty criteria should not reach the server")
	}
}

func TestCreateChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body createChannelBody
		json.NewDecoder(r.Body).Decode(&body)
		if body.Name != "news" || body.IsPublic {
			t.Errorf("body = %+v", body)
		}
		if body.EventsTTL == nil || *body.EventsTTL != 60000 {
			t.Errorf("EventsTTL = %v, want 60000", body.EventsTTL)
		}
		w.Write([]byte(`{"channel_id":"c-42"}`))
	}))
	defer server.Close()

	ttl := time.Minute
	rt := New("tok", WithBaseURL(server.URL))
	resp, err := rt.CreateChannel(context.Background(), &core.CreateChannelRequest{
		Context:   testContext(),
		Name:      "news",
		EventsTTL: &ttl,
	})
	if err != nil {
		t.Fatalf("CreateChannel() error = %v", err)
	}
	if resp.ChannelID != "c-42" {
		t.Errorf("ChannelID = %q, want c-42", resp.ChannelID)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(DefaultTokenEnvVar, "")
	if _, err := NewFromEnv(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}

	t.Setenv(DefaultTokenEnvVar, "env-token")
	t.Setenv(DefaultBaseURLEnvVar, "https://api.example/")
	rt, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	if rt.config.Token.Expose() != "env-token" {
		t.Error("token should come from the environment")
	}
	if rt.config.BaseURL != "https://api.example" {
		t.Errorf("BaseURL = %q", rt.config.BaseURL)
	}
}

func TestRegistered(t *testing.T) {
	rt, err := runtimes.Create("httpapi", "tok")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rt.ID() != "httpapi" {
		t.Errorf("ID() = %q, want httpapi", rt.ID())
	}
}

func TestEndToEndWithClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body sendMessageBody
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(sendMessageResult{MessageID: body.MessageID, MessageIndex: 1})
	}))
	defer server.Close()

	factory := core.NewClientFactory(New("tok", WithBaseURL(server.URL)))
	result, err := core.BuildClient(factory, testContext()).
		SendTextMessage("hello").
		WithMessageID("m-9").
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Message.ID != "m-9" || result.Message.MessageIndex != 1 {
		t.Errorf("message = %+v", result.Message)
	}
}
