package core

import "context"

// ChatEventsBuilder fetches events of the scoped chat.
type ChatEventsBuilder struct {
	*builder
	req ChatEventsRequest
}

func newChatEventsBuilder(b *builder, criteria EventsSelectionCriteria) *ChatEventsBuilder {
	if criteria == nil {
		criteria = EventsByIndex{}
	}
	return &ChatEventsBuilder{
		builder: b,
		req: ChatEventsRequest{
			Context:  b.context,
			Thread:   b.context.Scope.Thread,
			Criteria: criteria,
		},
	}
}

// WithChannelID selects a channel when the scope is a community.
func (b *ChatEventsBuilder) WithChannelID(id ChannelID) *ChatEventsBuilder {
	b.req.ChannelID = id
	return b
}

// WithThread reads the events of the thread rooted at root.
func (b *ChatEventsBuilder) WithThread(root MessageIndex) *ChatEventsBuilder {
	b.req.Thread = &root
	return b
}

// Request returns a copy of the request.
func (b *ChatEventsBuilder) Request() ChatEventsRequest {
	return b.req
}

// Execute fetches the selected events. Criteria that select nothing yield an
// empty list, not an error.
func (b *ChatEventsBuilder) Execute(ctx context.Context) (*ChatEventsResponse, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}
	req := b.req
	resp, err := dispatch(ctx, b.builder, ActionChatEvents, false, func(ctx context.Context) (*ChatEventsResponse, error) {
		return b.shared.runtime.ChatEvents(ctx, &req)
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &ChatEventsResponse{}
	}
	if resp.Events == nil {
		resp.Events = []ChatEvent{}
	}
	return resp, nil
}
