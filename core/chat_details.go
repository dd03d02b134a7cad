package core

import "context"

// ChatDetailsBuilder fetches the details of the scoped chat.
type ChatDetailsBuilder struct {
	*builder
	req ChatDetailsRequest
}

func newChatDetailsBuilder(b *builder) *ChatDetailsBuilder {
	return &ChatDetailsBuilder{
		builder: b,
		req:     ChatDetailsRequest{Context: b.context},
	}
}

// WithChannelID selects a channel when the scope is a community.
func (b *ChatDetailsBuilder) WithChannelID(id ChannelID) *ChatDetailsBuilder {
	b.req.ChannelID = id
	return b
}

// Request returns a copy of the request.
func (b *ChatDetailsBuilder) Request() ChatDetailsRequest {
	return b.req
}

// Execute fetches the details.
func (b *ChatDetailsBuilder) Execute(ctx context.Context) (*ChatDetailsResponse, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}
	req := b.req
	return dispatch(ctx, b.builder, ActionChatDetails, false, func(ctx context.Context) (*ChatDetailsResponse, error) {
		return b.shared.runtime.ChatDetails(ctx, &req)
	})
}
