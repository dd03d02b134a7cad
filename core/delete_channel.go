package core

import "context"

// DeleteChannelBuilder holds the parameters of a channel deletion.
type DeleteChannelBuilder struct {
	*builder
	req DeleteChannelRequest
}

func newDeleteChannelBuilder(b *builder, channelID ChannelID) *DeleteChannelBuilder {
	return &DeleteChannelBuilder{
		builder: b,
		req: DeleteChannelRequest{
			Context:   b.context,
			ChannelID: channelID,
		},
	}
}

// Request returns a copy of the request.
func (b *DeleteChannelBuilder) Request() DeleteChannelRequest {
	return b.req
}

// Execute deletes the channel.
func (b *DeleteChannelBuilder) Execute(ctx context.Context) error {
	if err := b.begin(); err != nil {
		return err
	}
	if b.req.ChannelID == "" {
		return invalidRequest(ActionDeleteChannel, errChannelIDRequired)
	}
	req := b.req
	_, err := dispatch(ctx, b.builder, ActionDeleteChannel, false, func(ctx context.Context) (*DeleteChannelResponse, error) {
		return b.shared.runtime.DeleteChannel(ctx, &req)
	})
	return err
}
