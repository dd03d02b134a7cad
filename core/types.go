package core

import "time"

// UserID identifies a user or bot on the platform.
type UserID string

// CommunityID identifies a community.
type CommunityID string

// ChannelID identifies a channel inside a community.
type ChannelID string

// MessageID is the client-chosen identifier of a message.
// It is assigned before submission so a message can be correlated with its
// eventual platform confirmation.
type MessageID string

// MessageIndex is the position of a message within a chat or thread.
type MessageIndex uint32

// EventIndex is the position of an event within a chat.
type EventIndex uint32

// ChatKind distinguishes the conversation types a bot can act in.
type ChatKind string

const (
	ChatDirect  ChatKind = "direct"
	ChatGroup   ChatKind = "group"
	ChatChannel ChatKind = "channel"
)

// Chat addresses a single conversation.
// For community channels ID holds the community and ChannelID the channel.
type Chat struct {
	Kind      ChatKind  `json:"kind"`
	ID        string    `json:"id"`
	ChannelID ChannelID `json:"channel_id,omitempty"`
}

// DirectChat returns the address of a direct chat with a user.
func DirectChat(id string) Chat {
	return Chat{Kind: ChatDirect, ID: id}
}

// GroupChat returns the address of a group chat.
func GroupChat(id string) Chat {
	return Chat{Kind: ChatGroup, ID: id}
}

// CommunityChannel returns the address of a channel inside a community.
func CommunityChannel(community CommunityID, channel ChannelID) Chat {
	return Chat{Kind: ChatChannel, ID: string(community), ChannelID: channel}
}

// IsZero reports whether the chat address is unset.
func (c Chat) IsZero() bool {
	return c.Kind == "" && c.ID == ""
}

// ActionKind names an action the SDK can dispatch.
type ActionKind string

const (
	ActionSendMessage   ActionKind = "send_message"
	ActionCreateChannel ActionKind = "create_channel"
	ActionDeleteChannel ActionKind = "delete_channel"
	ActionChatDetails   ActionKind = "chat_details"
	ActionChatEvents    ActionKind = "chat_events"
)

// AllActions returns every action kind in a stable order.
func AllActions() []ActionKind {
	return []ActionKind{
		ActionSendMessage,
		ActionCreateChannel,
		ActionDeleteChannel,
		ActionChatDetails,
		ActionChatEvents,
	}
}

// WaitPolicy controls whether finalizing a send waits for the platform.
type WaitPolicy string

const (
	// WaitForAck blocks until the runtime reports the platform's acknowledgment.
	WaitForAck WaitPolicy = "ack"
	// WaitNone returns as soon as the send is initiated (fire-and-forget).
	WaitNone WaitPolicy = "none"
)

// Message is the handle returned to a caller after a send.
// Pending is true when the platform has not yet confirmed the message; in
// that case only ID and the request fields are meaningful.
type Message struct {
	ID                 MessageID      `json:"id"`
	Chat               Chat           `json:"chat"`
	Thread             *MessageIndex  `json:"thread,omitempty"`
	Content            MessageContent `json:"-"`
	BlockLevelMarkdown bool           `json:"block_level_markdown,omitempty"`
	Finalised          bool           `json:"finalised"`
	Pending            bool           `json:"pending"`
	EventIndex         EventIndex     `json:"event_index,omitempty"`
	MessageIndex       MessageIndex   `json:"message_index,omitempty"`
	Timestamp          time.Time      `json:"timestamp,omitempty"`
}

// SuccessResult is what a bot command handler hands back to the platform.
type SuccessResult struct {
	Message *Message `json:"message,omitempty"`
}
