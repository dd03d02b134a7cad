package normalize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/petal-labs/ocbot/core"
)

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         []byte
		requestID    string
		wantCode     string
		wantMsg      string
		wantSentinel error
	}{
		{
			name:         "envelope",
			status:       http.StatusBadRequest,
			body:         []byte(`{"error":{"message":"Text too long","code":"text_too_long"}}`),
			requestID:    "req-123",
			wantCode:     "text_too_long",
			wantMsg:      "Text too long",
			wantSentinel: core.ErrBadRequest,
		},
		{
			name:         "bare message",
			status:       http.StatusNotFound,
			body:         []byte(`{"message":"Channel not found"}`),
			requestID:    "req-456",
			wantMsg:      "Channel not found",
			wantSentinel: core.ErrNotFound,
		},
		{
			name:         "fallback to status text",
			status:       http.StatusBadGateway,
			body:         []byte(`not json`),
			wantMsg:      "Bad Gateway",
			wantSentinel: core.ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HTTPError("test-runtime", core.ActionChatDetails, tt.status, tt.body, tt.requestID)

			var ie *core.InternalError
			if !errors.As(err, &ie) {
				t.Fatal("expected *core.InternalError")
			}
			if ie.Runtime != "test-runtime" || ie.Action != core.ActionChatDetails {
				t.Errorf("origin = %s/%s", ie.Runtime, ie.Action)
			}
			if ie.Status != tt.status {
				t.Errorf("Status = %d, want %d", ie.Status, tt.status)
			}
			if ie.RequestID != tt.requestID {
				t.Errorf("RequestID = %q, want %q", ie.RequestID, tt.requestID)
			}
			if ie.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", ie.Code, tt.wantCode)
			}
			if ie.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", ie.Message, tt.wantMsg)
			}
			if !errors.Is(err, tt.wantSentinel) {
				t.Errorf("expected %v, got %v", tt.wantSentinel, ie.Err)
			}
		})
	}
}

func TestSentinelForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, core.ErrBadRequest},
		{http.StatusUnprocessableEntity, core.ErrBadRequest},
		{http.StatusUnauthorized, core.ErrUnauthorized},
		{http.StatusForbidden, core.ErrUnauthorized},
		{http.StatusNotFound, core.ErrNotFound},
		{http.StatusLocked, core.ErrFrozen},
		{http.StatusTooManyRequests, core.ErrRateLimited},
		{http.StatusNotImplemented, core.ErrNotSupported},
		{http.StatusInternalServerError, core.ErrServer},
		{http.StatusServiceUnavailable, core.ErrServer},
	}

	for _, tt := range tests {
		if got := SentinelForStatus(tt.status); got != tt.want {
			t.Errorf("SentinelForStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNetworkAndDecodeErrors(t *testing.T) {
	cause := errors.New("connection refused")

	if err := NetworkError("rt", core.ActionSendMessage, cause); !errors.Is(err, core.ErrNetwork) {
		t.Errorf("NetworkError() = %v, want ErrNetwork", err)
	}
	if err := DecodeError("rt", core.ActionSendMessage, cause); !errors.Is(err, core.ErrDecode) {
		t.Errorf("DecodeError() = %v, want ErrDecode", err)
	}
}

func TestNetworkErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("dial: %w", context.DeadlineExceeded)
	err := NetworkError("rt", core.ActionChatDetails, cause)

	if !errors.Is(err, core.ErrNetwork) {
		t.Errorf("NetworkError() = %v, want ErrNetwork", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("NetworkError() = %v, want DeadlineExceeded in chain", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("NetworkError() dropped cause %v", cause)
	}
	if got := err.Error(); got != "rt: chat_details: dial: context deadline exceeded" {
		t.Errorf("Error() = %q", got)
	}

	derr := DecodeError("rt", core.ActionChatDetails, cause)
	if !errors.Is(derr, core.ErrDecode) || !errors.Is(derr, cause) {
		t.Errorf("DecodeError() = %v, want ErrDecode wrapping cause", derr)
	}
}
