package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/petal-labs/ocbot/core"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// do performs one action request. out may be nil when the response carries
// no payload.
func (r *Runtime) do(ctx context.Context, action core.ActionKind, actx core.ActionContext, in, out any) error {
	url, err := r.endpoint(actx, action)
	if err != nil {
		return newConfigError(action, err)
	}

	// Marshal request body
	body, err := json.Marshal(in)
	if err != nil {
		return newDecodeError(action, err)
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return newNetworkError(action, err)
	}
	httpReq.Header = r.buildHeaders(actx, requestID)

	resp, err := r.config.HTTPClient.Do(httpReq)
	if err != nil {
		return newNetworkError(action, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return newNetworkError(action, err)
	}

	// Prefer the id the platform echoes back
	if id := resp.Header.Get("X-Request-Id"); id != "" {
		requestID = id
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return normalizeError(action, resp.StatusCode, respBody, requestID)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return newDecodeError(action, err)
	}
	return nil
}
