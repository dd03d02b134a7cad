package core

import (
	"context"
	"strings"
	"time"
)

// CreateChannelBuilder accumulates the parameters of a channel creation.
type CreateChannelBuilder struct {
	*builder
	req CreateChannelRequest
}

func newCreateChannelBuilder(b *builder, name string, isPublic bool) *CreateChannelBuilder {
	return &CreateChannelBuilder{
		builder: b,
		req: CreateChannelRequest{
			Context:                    b.context,
			Name:                       name,
			IsPublic:                   isPublic,
			HistoryVisibleToNewJoiners: isPublic,
		},
	}
}

// WithDescription sets the channel description.
func (b *CreateChannelBuilder) WithDescription(s string) *CreateChannelBuilder {
	b.req.Description = s
	return b
}

// WithRules sets the channel rules shown to joiners.
func (b *CreateChannelBuilder) WithRules(s string) *CreateChannelBuilder {
	b.req.Rules = s
	return b
}

// WithHistoryVisibleToNewJoiners controls whether new members see old messages.
func (b *CreateChannelBuilder) WithHistoryVisibleToNewJoiners(v bool) *CreateChannelBuilder {
	b.req.HistoryVisibleToNewJoiners = v
	return b
}

// WithMessagesVisibleToNonMembers controls whether non-members can read messages.
func (b *CreateChannelBuilder) WithMessagesVisibleToNonMembers(v bool) *CreateChannelBuilder {
	b.req.MessagesVisibleToNonMembers = v
	return b
}

// WithEventsTTL sets how long events are kept before they expire.
func (b *CreateChannelBuilder) WithEventsTTL(ttl time.Duration) *CreateChannelBuilder {
	b.req.EventsTTL = &ttl
	return b
}

// WithExternalURL makes the channel display an external web page.
func (b *CreateChannelBuilder) WithExternalURL(url string) *CreateChannelBuilder {
	b.req.ExternalURL = url
	return b
}

// Request returns a copy of the request as currently configured.
func (b *CreateChannelBuilder) Request() CreateChannelRequest {
	return b.req
}

func (b *CreateChannelBuilder) validate() error {
	if strings.TrimSpace(b.req.Name) == "" {
		return invalidRequest(ActionCreateChannel, errChannelNameRequired)
	}
	return nil
}

// Execute creates the channel and returns its id.
func (b *CreateChannelBuilder) Execute(ctx context.Context) (*CreateChannelResponse, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	req := b.req
	return dispatch(ctx, b.builder, ActionCreateChannel, false, func(ctx context.Context) (*CreateChannelResponse, error) {
		return b.shared.runtime.CreateChannel(ctx, &req)
	})
}
