package httpapi

import (
	"encoding/json"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// wireContext is the part of the action context the platform needs.
// The token travels in the Authorization header, never in the body.
type wireContext struct {
	BotID     core.UserID      `json:"bot_id"`
	Scope     core.ActionScope `json:"scope"`
	Initiator core.UserID      `json:"initiator,omitempty"`
}

type sendMessageBody struct {
	Context            wireContext        `json:"context"`
	Content            json.RawMessage    `json:"content"`
	ChannelID          core.ChannelID     `json:"channel_id,omitempty"`
	Thread             *core.MessageIndex `json:"thread,omitempty"`
	MessageID          core.MessageID     `json:"message_id"`
	BlockLevelMarkdown bool               `json:"block_level_markdown"`
	Finalised          bool               `json:"finalised"`
}

type sendMessageResult struct {
	MessageID    core.MessageID    `json:"message_id"`
	EventIndex   core.EventIndex   `json:"event_index"`
	MessageIndex core.MessageIndex `json:"message_index"`
	Timestamp    int64             `json:"timestamp"`
	ExpiresAt    *int64            `json:"expires_at,omitempty"`
}

type createChannelBody struct {
	Context                     wireContext `json:"context"`
	Name                        string      `json:"name"`
	IsPublic                    bool        `json:"is_public"`
	Description                 string      `json:"description,omitempty"`
	Rules                       string      `json:"rules,omitempty"`
	HistoryVisibleToNewJoiners  bool        `json:"history_visible_to_new_joiners"`
	MessagesVisibleToNonMembers bool        `json:"messages_visible_to_non_members"`
	EventsTTL                   *int64      `json:"events_ttl,omitempty"`
	ExternalURL                 string      `json:"external_url,omitempty"`
}

type createChannelResult struct {
	ChannelID core.ChannelID `json:"channel_id"`
}

type deleteChannelBody struct {
	Context   wireContext    `json:"context"`
	ChannelID core.ChannelID `json:"channel_id"`
}

type chatDetailsBody struct {
	Context   wireContext    `json:"context"`
	ChannelID core.ChannelID `json:"channel_id,omitempty"`
}

type chatDetailsResult struct {
	Name                        string             `json:"name"`
	Description                 string             `json:"description"`
	AvatarID                    string             `json:"avatar_id,omitempty"`
	IsPublic                    bool               `json:"is_public"`
	HistoryVisibleToNewJoiners  bool               `json:"history_visible_to_new_joiners"`
	MessagesVisibleToNonMembers bool               `json:"messages_visible_to_non_members"`
	Rules                       string             `json:"rules,omitempty"`
	EventsTTL                   *int64             `json:"events_ttl,omitempty"`
	MemberCount                 uint32             `json:"member_count"`
	Frozen                      bool               `json:"frozen,omitempty"`
	LatestEventIndex            core.EventIndex    `json:"latest_event_index"`
	LatestMessageIndex          *core.MessageIndex `json:"latest_message_index,omitempty"`
	LastUpdated                 int64              `json:"last_updated"`
	ExternalURL                 string             `json:"external_url,omitempty"`
}

type chatEventsBody struct {
	Context   wireContext        `json:"context"`
	ChannelID core.ChannelID     `json:"channel_id,omitempty"`
	Thread    *core.MessageIndex `json:"thread,omitempty"`
	Criteria  json.RawMessage    `json:"criteria"`
}

type chatEventsResult struct {
	Events           []wireEvent     `json:"events"`
	LatestEventIndex core.EventIndex `json:"latest_event_index"`
	ChatLastUpdated  int64           `json:"chat_last_updated"`
}

type wireEvent struct {
	Index     core.EventIndex    `json:"index"`
	Timestamp int64              `json:"timestamp"`
	Kind      core.EventKind     `json:"kind"`
	Message   *wireMessageEvent  `json:"message,omitempty"`
	Channel   *core.ChannelEvent `json:"channel,omitempty"`
	User      core.UserID        `json:"user,omitempty"`
}

type wireMessageEvent struct {
	MessageIndex core.MessageIndex  `json:"message_index"`
	MessageID    core.MessageID     `json:"message_id"`
	Sender       core.UserID        `json:"sender"`
	Content      json.RawMessage    `json:"content,omitempty"`
	Thread       *core.MessageIndex `json:"thread,omitempty"`
	Edited       bool               `json:"edited,omitempty"`
	BotMessage   bool               `json:"bot_message,omitempty"`
	Finalised    bool               `json:"finalised"`
}

// Platform timestamps are milliseconds since the Unix epoch.
func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func durationToMillis(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	ms := d.Milliseconds()
	return &ms
}

func millisToDuration(ms *int64) *time.Duration {
	if ms == nil {
		return nil
	}
	d := time.Duration(*ms) * time.Millisecond
	return &d
}
