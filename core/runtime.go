package core

import (
	"context"
	"time"
)

// Runtime executes built action requests against the platform.
// Runtimes MUST be safe for concurrent calls: one Runtime is shared by every
// Client a ClientFactory produces.
//
// Retry, backoff and connection pooling are the Runtime's concern. The core
// never retries a failed call.
type Runtime interface {
	// ID returns the runtime identifier (e.g., "httpapi", "memory").
	ID() string

	// SendMessage posts a message and returns once the platform acknowledged it.
	SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error)

	// CreateChannel creates a channel in the scoped community.
	CreateChannel(ctx context.Context, req *CreateChannelRequest) (*CreateChannelResponse, error)

	// DeleteChannel deletes a channel from the scoped community.
	DeleteChannel(ctx context.Context, req *DeleteChannelRequest) (*DeleteChannelResponse, error)

	// ChatDetails fetches the details of the scoped chat.
	ChatDetails(ctx context.Context, req *ChatDetailsRequest) (*ChatDetailsResponse, error)

	// ChatEvents fetches events of the scoped chat.
	ChatEvents(ctx context.Context, req *ChatEventsRequest) (*ChatEventsResponse, error)
}

// Spawner is an optional interface for runtimes that schedule background work
// themselves. Fire-and-forget sends are handed to Spawn when available;
// otherwise they run on a new goroutine.
type Spawner interface {
	Spawn(fn func())
}

// ActionRequest is implemented by every request type a Runtime accepts.
type ActionRequest interface {
	// Action returns the kind of action the request performs.
	Action() ActionKind

	// ActionContext returns the canonical context of the request.
	ActionContext() ActionContext
}

// SendMessageRequest is the request surface for sending a message.
type SendMessageRequest struct {
	Context            ActionContext  `json:"-"`
	Content            MessageContent `json:"-"`
	ChannelID          ChannelID      `json:"channel_id,omitempty"`
	Thread             *MessageIndex  `json:"thread,omitempty"`
	MessageID          MessageID      `json:"message_id"`
	BlockLevelMarkdown bool           `json:"block_level_markdown"`
	Finalised          bool           `json:"finalised"`
	WaitPolicy         WaitPolicy     `json:"-"`
}

// SendMessageResponse is returned once the platform accepted a message.
type SendMessageResponse struct {
	MessageID    MessageID    `json:"message_id"`
	EventIndex   EventIndex   `json:"event_index"`
	MessageIndex MessageIndex `json:"message_index"`
	Timestamp    time.Time    `json:"timestamp"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
}

// CreateChannelRequest is the request surface for creating a channel.
type CreateChannelRequest struct {
	Context                     ActionContext  `json:"-"`
	Name                        string         `json:"name"`
	IsPublic                    bool           `json:"is_public"`
	Description                 string         `json:"description,omitempty"`
	Rules                       string         `json:"rules,omitempty"`
	HistoryVisibleToNewJoiners  bool           `json:"history_visible_to_new_joiners"`
	MessagesVisibleToNonMembers bool           `json:"messages_visible_to_non_members"`
	EventsTTL                   *time.Duration `json:"events_ttl,omitempty"`
	ExternalURL                 string         `json:"external_url,omitempty"`
}

// CreateChannelResponse carries the id of the new channel.
type CreateChannelResponse struct {
	ChannelID ChannelID `json:"channel_id"`
}

// DeleteChannelRequest is the request surface for deleting a channel.
type DeleteChannelRequest struct {
	Context   ActionContext `json:"-"`
	ChannelID ChannelID     `json:"channel_id"`
}

// DeleteChannelResponse is empty; success is the absence of an error.
type DeleteChannelResponse struct{}

// ChatDetailsRequest is the request surface for fetching chat details.
type ChatDetailsRequest struct {
	Context   ActionContext `json:"-"`
	ChannelID ChannelID     `json:"channel_id,omitempty"`
}

// ChatDetailsResponse describes a chat.
type ChatDetailsResponse struct {
	Name                        string         `json:"name"`
	Description                 string         `json:"description"`
	AvatarID                    string         `json:"avatar_id,omitempty"`
	IsPublic                    bool           `json:"is_public"`
	HistoryVisibleToNewJoiners  bool           `json:"history_visible_to_new_joiners"`
	MessagesVisibleToNonMembers bool           `json:"messages_visible_to_non_members"`
	Rules                       string         `json:"rules,omitempty"`
	EventsTTL                   *time.Duration `json:"events_ttl,omitempty"`
	MemberCount                 uint32         `json:"member_count"`
	Frozen                      bool           `json:"frozen,omitempty"`
	LatestEventIndex            EventIndex     `json:"latest_event_index"`
	LatestMessageIndex          *MessageIndex  `json:"latest_message_index,omitempty"`
	LastUpdated                 time.Time      `json:"last_updated"`
	ExternalURL                 string         `json:"external_url,omitempty"`
}

// ChatEventsRequest is the request surface for fetching chat events.
type ChatEventsRequest struct {
	Context   ActionContext           `json:"-"`
	ChannelID ChannelID               `json:"channel_id,omitempty"`
	Thread    *MessageIndex           `json:"thread,omitempty"`
	Criteria  EventsSelectionCriteria `json:"-"`
}

// ChatEventsResponse carries the selected events in ascending index order.
type ChatEventsResponse struct {
	Events           []ChatEvent `json:"events"`
	LatestEventIndex EventIndex  `json:"latest_event_index"`
	ChatLastUpdated  time.Time   `json:"chat_last_updated"`
}

func (r *SendMessageRequest) Action() ActionKind   { return ActionSendMessage }
func (r *CreateChannelRequest) Action() ActionKind { return ActionCreateChannel }
func (r *DeleteChannelRequest) Action() ActionKind { return ActionDeleteChannel }
func (r *ChatDetailsRequest) Action() ActionKind   { return ActionChatDetails }
func (r *ChatEventsRequest) Action() ActionKind    { return ActionChatEvents }

func (r *SendMessageRequest) ActionContext() ActionContext   { return r.Context }
func (r *CreateChannelRequest) ActionContext() ActionContext { return r.Context }
func (r *DeleteChannelRequest) ActionContext() ActionContext { return r.Context }
func (r *ChatDetailsRequest) ActionContext() ActionContext   { return r.Context }
func (r *ChatEventsRequest) ActionContext() ActionContext    { return r.Context }

var (
	_ ActionRequest = (*SendMessageRequest)(nil)
	_ ActionRequest = (*CreateChannelRequest)(nil)
	_ ActionRequest = (*DeleteChannelRequest)(nil)
	_ ActionRequest = (*ChatDetailsRequest)(nil)
	_ ActionRequest = (*ChatEventsRequest)(nil)
)
