package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/petal-labs/ocbot/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitRuntime    = 2
	ExitNetwork    = 3
)

// exitError wraps an error with an exit code.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// fail reports an action error and maps it to an exit code.
func (a *App) fail(err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}

	var ie *core.InternalError
	errors.As(err, &ie)

	switch {
	case errors.Is(err, core.ErrInvalidRequest),
		errors.Is(err, core.ErrClientConsumed),
		errors.Is(err, core.ErrAlreadySubmitted):
		a.printError("validation_error", err.Error(), ie)
		return &exitError{code: ExitValidation, err: err, reported: true}
	case errors.Is(err, core.ErrNetwork):
		a.printError("network_error", err.Error(), ie)
		return &exitError{code: ExitNetwork, err: err, reported: true}
	default:
		a.printError(errorType(err), err.Error(), ie)
		return &exitError{code: ExitRuntime, err: err, reported: true}
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, core.ErrNotFound):
		return "not_found"
	case errors.Is(err, core.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, core.ErrBadRequest):
		return "bad_request"
	case errors.Is(err, core.ErrFrozen):
		return "frozen"
	default:
		return "runtime_error"
	}
}

func (a *App) printError(errType, message string, ie *core.InternalError) {
	if a.jsonOutput {
		body := map[string]any{
			"type":    errType,
			"message": message,
		}
		if ie != nil {
			body["runtime"] = ie.Runtime
			body["action"] = ie.Action
			if ie.RequestID != "" {
				body["request_id"] = ie.RequestID
			}
		}
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"error": body})
		return
	}

	fmt.Fprintf(a.stderr, "Error: %s\n", message)
	if ie != nil && ie.RequestID != "" {
		fmt.Fprintf(a.stderr, "  Runtime: %s, Request ID: %s\n", ie.Runtime, ie.RequestID)
	}
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
