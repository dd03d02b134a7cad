package core

import (
	"errors"
	"fmt"
	"strings"
)

// InternalError is the error every failed action surfaces to the caller.
// It records where the failure happened; Err holds the classifying sentinel.
type InternalError struct {
	Action    ActionKind
	Runtime   string
	Status    int
	Code      string
	RequestID string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	var b strings.Builder
	if e.Runtime != "" {
		b.WriteString(e.Runtime)
		b.WriteString(": ")
	}
	if e.Action != "" {
		b.WriteString(string(e.Action))
		b.WriteString(": ")
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	b.WriteString(msg)

	var details []string
	if e.Status != 0 {
		details = append(details, fmt.Sprintf("status=%d", e.Status))
	}
	if e.Code != "" {
		details = append(details, "code="+e.Code)
	}
	if e.RequestID != "" {
		details = append(details, "request_id="+e.RequestID)
	}
	if len(details) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(details, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying error for error chaining.
func (e *InternalError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrRateLimited    = errors.New("rate limited")
	ErrBadRequest     = errors.New("bad request")
	ErrFrozen         = errors.New("chat frozen")
	ErrServer         = errors.New("server error")
	ErrNetwork        = errors.New("network error")
	ErrDecode         = errors.New("decode error")
	ErrNotSupported   = errors.New("operation not supported")
	ErrInvalidRequest = errors.New("invalid request")
)

// Misuse errors. These are programming errors, not platform failures, and are
// never wrapped in an InternalError.
var (
	ErrClientConsumed   = errors.New("client already used: build a new client from the factory for each action")
	ErrAlreadySubmitted = errors.New("builder already submitted: a builder can only be executed once")
)

// Validation errors with actionable guidance.
var (
	errContentRequired     = errors.New("content required: pass a MessageContent to Client.SendMessage(), e.g. core.Text(\"hi\")")
	errChannelNameRequired = errors.New("channel name required: pass a non-empty name to Client.CreateChannel()")
	errChannelIDRequired   = errors.New("channel id required: pass the id of the channel to Client.DeleteChannel()")
)

// asInternalError converts a runtime failure into an InternalError.
// An InternalError is passed through unchanged.
func asInternalError(action ActionKind, runtime string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return err
	}
	return &InternalError{
		Action:  action,
		Runtime: runtime,
		Message: err.Error(),
		Err:     err,
	}
}

// invalidRequest wraps a validation failure.
func invalidRequest(action ActionKind, cause error) error {
	return &InternalError{
		Action:  action,
		Message: cause.Error(),
		Err:     fmt.Errorf("%w: %w", ErrInvalidRequest, cause),
	}
}
