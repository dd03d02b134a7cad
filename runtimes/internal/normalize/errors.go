// Package normalize provides shared runtime error normalization helpers.
package normalize

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/petal-labs/ocbot/core"
)

// errorEnvelope represents platform error bodies of the form:
// {"error":{"message":"...","code":"..."}}
// A bare {"message":"..."} body is accepted as well.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Message string `json:"message"`
}

// HTTPError normalizes a non-2xx platform response.
func HTTPError(runtime string, action core.ActionKind, status int, body []byte, requestID string) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)

	message := env.Error.Message
	if message == "" {
		message = env.Message
	}
	return InternalError(runtime, action, status, requestID, env.Error.Code, message, nil)
}

// NetworkError wraps transport failures. The cause stays in the chain so
// callers can still match context.DeadlineExceeded or *url.Error.
func NetworkError(runtime string, action core.ActionKind, err error) error {
	return &core.InternalError{
		Runtime: runtime,
		Action:  action,
		Message: err.Error(),
		Err:     fmt.Errorf("%w: %w", core.ErrNetwork, err),
	}
}

// DecodeError wraps encode/decode failures.
func DecodeError(runtime string, action core.ActionKind, err error) error {
	return &core.InternalError{
		Runtime: runtime,
		Action:  action,
		Message: err.Error(),
		Err:     fmt.Errorf("%w: %w", core.ErrDecode, err),
	}
}

// InternalError constructs a normalized InternalError.
// If message is empty, HTTP status text is used.
// If sentinel is nil, default status-based mapping is applied.
func InternalError(runtime string, action core.ActionKind, status int, requestID, code, message string, sentinel error) error {
	if message == "" {
		message = http.StatusText(status)
	}
	if sentinel == nil {
		sentinel = SentinelForStatus(status)
	}
	return &core.InternalError{
		Runtime:   runtime,
		Action:    action,
		Status:    status,
		RequestID: requestID,
		Code:      code,
		Message:   message,
		Err:       sentinel,
	}
}

// SentinelForStatus maps an HTTP status code to a core sentinel error.
func SentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusLocked:
		return core.ErrFrozen
	case status == http.StatusNotImplemented:
		return core.ErrNotSupported
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	default:
		return core.ErrServer
	}
}
