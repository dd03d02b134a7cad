// Package httpapi implements core.Runtime over the platform's JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/petal-labs/ocbot/core"
)

const runtimeID = "httpapi"

// Environment variables read by NewFromEnv.
const (
	DefaultTokenEnvVar   = "OCBOT_TOKEN"
	DefaultBaseURLEnvVar = "OCBOT_BASE_URL"
)

// ErrTokenNotFound is returned when the token environment variable is not set.
var ErrTokenNotFound = errors.New("httpapi: OCBOT_TOKEN environment variable not set")

// NewFromEnv creates a runtime from OCBOT_TOKEN and, when set, OCBOT_BASE_URL.
//
//	rt, err := httpapi.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	factory := core.NewClientFactory(rt)
func NewFromEnv(opts ...Option) (*Runtime, error) {
	token := os.Getenv(DefaultTokenEnvVar)
	if token == "" {
		return nil, ErrTokenNotFound
	}
	if base := os.Getenv(DefaultBaseURLEnvVar); base != "" {
		opts = append([]Option{WithBaseURL(base)}, opts...)
	}
	return New(token, opts...), nil
}

// Runtime sends bot actions to the platform over HTTP.
// Runtime is safe for concurrent use.
type Runtime struct {
	config Config
}

// New creates an HTTP runtime. token is used for actions whose context does
// not carry one and may be empty.
func New(token string, opts ...Option) *Runtime {
	cfg := Config{
		Token:      core.NewSecret(token),
		HTTPClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Runtime{config: cfg}
}

// ID returns the runtime identifier.
func (r *Runtime) ID() string {
	return runtimeID
}

// buildHeaders constructs the HTTP headers for an action request.
func (r *Runtime) buildHeaders(actx core.ActionContext, requestID string) http.Header {
	headers := make(http.Header)

	token := actx.Token.Or(r.config.Token)
	if !token.IsEmpty() {
		headers.Set("Authorization", "Bearer "+token.Expose())
	}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("X-Request-Id", requestID)

	for key, values := range r.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// endpoint resolves the URL of an action.
func (r *Runtime) endpoint(actx core.ActionContext, action core.ActionKind) (string, error) {
	base := r.config.BaseURL
	if base == "" {
		base = strings.TrimRight(actx.APIGateway, "/")
	}
	if base == "" {
		return "", errNoBaseURL
	}
	return base + "/bot/" + string(action), nil
}

// SendMessage posts a message.
func (r *Runtime) SendMessage(ctx context.Context, req *core.SendMessageRequest) (*core.SendMessageResponse, error) {
	body, err := buildSendMessageBody(req)
	if err != nil {
		return nil, newDecodeError(core.ActionSendMessage, err)
	}
	var out sendMessageResult
	if err := r.do(ctx, core.ActionSendMessage, req.Context, body, &out); err != nil {
		return nil, err
	}
	return mapSendMessageResult(&out, req), nil
}

// CreateChannel creates a channel in the scoped community.
func (r *Runtime) CreateChannel(ctx context.Context, req *core.CreateChannelRequest) (*core.CreateChannelResponse, error) {
	var out createChannelResult
	if err := r.do(ctx, core.ActionCreateChannel, req.Context, buildCreateChannelBody(req), &out); err != nil {
		return nil, err
	}
	return &core.CreateChannelResponse{ChannelID: out.ChannelID}, nil
}

// DeleteChannel deletes a channel from the scoped community.
func (r *Runtime) DeleteChannel(ctx context.Context, req *core.DeleteChannelRequest) (*core.DeleteChannelResponse, error) {
	body := &deleteChannelBody{
		Context:   toWireContext(req.Context),
		ChannelID: req.ChannelID,
	}
	if err := r.do(ctx, core.ActionDeleteChannel, req.Context, body, nil); err != nil {
		return nil, err
	}
	return &core.DeleteChannelResponse{}, nil
}

// ChatDetails fetches the details of the scoped chat.
func (r *Runtime) ChatDetails(ctx context.Context, req *core.ChatDetailsRequest) (*core.ChatDetailsResponse, error) {
	body := &chatDetailsBody{
		Context:   toWireContext(req.Context),
		ChannelID: req.ChannelID,
	}
	var out chatDetailsResult
	if err := r.do(ctx, core.ActionChatDetails, req.Context, body, &out); err != nil {
		return nil, err
	}
	return mapChatDetailsResult(&out), nil
}

// ChatEvents fetches events of the scoped chat. Criteria that cannot select
// anything are answered locally with an empty list.
func (r *Runtime) ChatEvents(ctx context.Context, req *core.ChatEventsRequest) (*core.ChatEventsResponse, error) {
	if core.IsEmpty(req.Criteria) {
		return &core.ChatEventsResponse{Events: []core.ChatEvent{}}, nil
	}
	body, err := buildChatEventsBody(req)
	if err != nil {
		return nil, newDecodeError(core.ActionChatEvents, err)
	}
	var out chatEventsResult
	if err := r.do(ctx, core.ActionChatEvents, req.Context, body, &out); err != nil {
		return nil, err
	}
	resp, err := mapChatEventsResult(&out)
	if err != nil {
		return nil, newDecodeError(core.ActionChatEvents, err)
	}
	return resp, nil
}

// Compile-time check that Runtime implements core.Runtime.
var _ core.Runtime = (*Runtime)(nil)
