package core

import "time"

// EventsSelectionCriteria describes which chat events to fetch.
// A nil criteria selects nothing.
type EventsSelectionCriteria interface {
	isEventsSelectionCriteria()
}

// EventsPage walks the event list from StartIndex in one direction.
type EventsPage struct {
	StartIndex  EventIndex `json:"start_index"`
	Ascending   bool       `json:"ascending"`
	MaxMessages uint32     `json:"max_messages"`
	MaxEvents   uint32     `json:"max_events"`
}

// EventsByIndex selects individual events.
type EventsByIndex struct {
	Events []EventIndex `json:"events"`
}

// EventsWindow selects events on both sides of MidPoint.
type EventsWindow struct {
	MidPoint    MessageIndex `json:"mid_point"`
	MaxMessages uint32       `json:"max_messages"`
	MaxEvents   uint32       `json:"max_events"`
}

// EventsLatest selects the most recent MaxEvents events, oldest first.
type EventsLatest struct {
	MaxEvents uint32 `json:"max_events"`
}

func (EventsPage) isEventsSelectionCriteria()    {}
func (EventsByIndex) isEventsSelectionCriteria() {}
func (EventsWindow) isEventsSelectionCriteria()  {}
func (EventsLatest) isEventsSelectionCriteria()  {}

// IsEmpty reports whether the criteria cannot select any event.
func IsEmpty(c EventsSelectionCriteria) bool {
	switch v := c.(type) {
	case nil:
		return true
	case EventsPage:
		return v.MaxEvents == 0 || v.MaxMessages == 0
	case EventsByIndex:
		return len(v.Events) == 0
	case EventsWindow:
		return v.MaxEvents == 0 || v.MaxMessages == 0
	case EventsLatest:
		return v.MaxEvents == 0
	default:
		return false
	}
}

// EventKind is the type of a chat event.
type EventKind string

const (
	EventMessage           EventKind = "message"
	EventMessageEdited     EventKind = "message_edited"
	EventParticipantJoined EventKind = "participant_joined"
	EventParticipantLeft   EventKind = "participant_left"
	EventChatCreated       EventKind = "chat_created"
	EventChannelCreated    EventKind = "channel_created"
	EventChannelDeleted    EventKind = "channel_deleted"
)

// MessageEvent is the payload of an EventMessage event.
type MessageEvent struct {
	MessageIndex MessageIndex   `json:"message_index"`
	MessageID    MessageID      `json:"message_id"`
	Sender       UserID         `json:"sender"`
	Content      MessageContent `json:"-"`
	Thread       *MessageIndex  `json:"thread,omitempty"`
	Edited       bool           `json:"edited,omitempty"`
	BotMessage   bool           `json:"bot_message,omitempty"`
	Finalised    bool           `json:"finalised"`
}

// ChannelEvent is the payload of channel lifecycle events.
type ChannelEvent struct {
	ChannelID ChannelID `json:"channel_id"`
	Name      string    `json:"name"`
	By        UserID    `json:"by"`
}

// ChatEvent is a single entry in a chat's event list.
type ChatEvent struct {
	Index     EventIndex    `json:"index"`
	Timestamp time.Time     `json:"timestamp"`
	Kind      EventKind     `json:"kind"`
	Message   *MessageEvent `json:"message,omitempty"`
	Channel   *ChannelEvent `json:"channel,omitempty"`
	User      UserID        `json:"user,omitempty"`
}
