package httpapi

import (
	"errors"

	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/runtimes/internal/normalize"
)

// errNoBaseURL is returned when neither the runtime nor the context names an endpoint.
var errNoBaseURL = errors.New("no API endpoint: set httpapi.WithBaseURL() or the context APIGateway")

// normalizeError converts an HTTP error response to an InternalError with the appropriate sentinel.
func normalizeError(action core.ActionKind, status int, body []byte, requestID string) error {
	return normalize.HTTPError(runtimeID, action, status, body, requestID)
}

// newNetworkError creates an InternalError for transport failures.
func newNetworkError(action core.ActionKind, err error) error {
	return normalize.NetworkError(runtimeID, action, err)
}

// newDecodeError creates an InternalError for JSON encode/decode failures.
func newDecodeError(action core.ActionKind, err error) error {
	return normalize.DecodeError(runtimeID, action, err)
}

// newConfigError reports a request that cannot be addressed.
func newConfigError(action core.ActionKind, err error) error {
	return &core.InternalError{
		Runtime: runtimeID,
		Action:  action,
		Message: err.Error(),
		Err:     core.ErrInvalidRequest,
	}
}
