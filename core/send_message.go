package core

import "context"

// SendMessageBuilder accumulates the parameters of one message send.
// SendMessageBuilder is NOT thread-safe and must not be reused after Execute.
type SendMessageBuilder struct {
	*builder
	req        SendMessageRequest
	onResponse func(*SendMessageResponse, error)
}

func newSendMessageBuilder(b *builder, content MessageContent) *SendMessageBuilder {
	return &SendMessageBuilder{
		builder: b,
		req: SendMessageRequest{
			Context:    b.context,
			Content:    content,
			Thread:     b.context.Scope.Thread,
			MessageID:  b.context.Scope.MessageID,
			Finalised:  true,
			WaitPolicy: WaitForAck,
		},
	}
}

// WithChannelID targets a channel of the scoped community.
func (b *SendMessageBuilder) WithChannelID(id ChannelID) *SendMessageBuilder {
	b.req.ChannelID = id
	return b
}

// WithThread sends the message into the thread rooted at root.
func (b *SendMessageBuilder) WithThread(root MessageIndex) *SendMessageBuilder {
	b.req.Thread = &root
	return b
}

// WithMessageID overrides the message id.
func (b *SendMessageBuilder) WithMessageID(id MessageID) *SendMessageBuilder {
	b.req.MessageID = id
	return b
}

// WithBlockLevelMarkdown enables block-level markdown rendering of text.
func (b *SendMessageBuilder) WithBlockLevelMarkdown(v bool) *SendMessageBuilder {
	b.req.BlockLevelMarkdown = v
	return b
}

// WithFinalised marks whether the message is complete. Unfinalised messages
// may be replaced by a later send with the same id.
func (b *SendMessageBuilder) WithFinalised(v bool) *SendMessageBuilder {
	b.req.Finalised = v
	return b
}

// WithWaitPolicy sets whether Execute waits for the platform.
func (b *SendMessageBuilder) WithWaitPolicy(p WaitPolicy) *SendMessageBuilder {
	b.req.WaitPolicy = p
	return b
}

// FireAndForget makes Execute return as soon as the send is initiated.
func (b *SendMessageBuilder) FireAndForget() *SendMessageBuilder {
	return b.WithWaitPolicy(WaitNone)
}

// OnResponse registers a callback that receives the runtime's answer. With
// WaitNone it is the only way to observe the outcome; it runs on the
// goroutine that performed the send.
func (b *SendMessageBuilder) OnResponse(fn func(*SendMessageResponse, error)) *SendMessageBuilder {
	b.onResponse = fn
	return b
}

// Request returns a copy of the request as currently configured.
func (b *SendMessageBuilder) Request() SendMessageRequest {
	return b.req
}

func (b *SendMessageBuilder) validate() error {
	if b.req.Content == nil {
		return invalidRequest(ActionSendMessage, errContentRequired)
	}
	return nil
}

// Execute submits the message.
//
// With WaitForAck it blocks until the runtime answers and the returned handle
// reflects the platform's confirmation. With WaitNone it returns immediately
// with a pending handle whose ID can be used to correlate the message later;
// the send continues in the background, detached from ctx cancellation.
func (b *SendMessageBuilder) Execute(ctx context.Context) (*SuccessResult, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if b.req.MessageID == "" {
		b.req.MessageID = b.shared.newID()
	}
	if b.req.WaitPolicy == "" {
		b.req.WaitPolicy = WaitForAck
	}

	req := b.req
	msg := &Message{
		ID:                 req.MessageID,
		Chat:               req.Context.Scope.Chat,
		Thread:             req.Thread,
		Content:            req.Content,
		BlockLevelMarkdown: req.BlockLevelMarkdown,
		Finalised:          req.Finalised,
	}
	if req.ChannelID != "" {
		switch {
		case req.Context.Scope.Kind == ScopeCommunity:
			msg.Chat = CommunityChannel(req.Context.Scope.CommunityID, req.ChannelID)
		case msg.Chat.Kind == ChatChannel:
			msg.Chat.ChannelID = req.ChannelID
		}
	}

	if req.WaitPolicy == WaitNone {
		msg.Pending = true
		b.spawn(func() {
			b.send(context.WithoutCancel(ctx), &req, true)
		})
		return &SuccessResult{Message: msg}, nil
	}

	resp, err := b.send(ctx, &req, false)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		if resp.MessageID != "" {
			msg.ID = resp.MessageID
		}
		msg.EventIndex = resp.EventIndex
		msg.MessageIndex = resp.MessageIndex
		msg.Timestamp = resp.Timestamp
	}
	return &SuccessResult{Message: msg}, nil
}

func (b *SendMessageBuilder) send(ctx context.Context, req *SendMessageRequest, async bool) (*SendMessageResponse, error) {
	resp, err := dispatch(ctx, b.builder, ActionSendMessage, async, func(ctx context.Context) (*SendMessageResponse, error) {
		return b.shared.runtime.SendMessage(ctx, req)
	})
	if b.onResponse != nil {
		b.onResponse(resp, err)
	}
	return resp, err
}

func (b *SendMessageBuilder) spawn(fn func()) {
	if s, ok := b.shared.runtime.(Spawner); ok {
		s.Spawn(fn)
		return
	}
	go fn()
}
