package httpapi

import (
	"encoding/json"
	"fmt"

	"github.com/petal-labs/ocbot/core"
)

// Criteria tags used on the wire.
const (
	criteriaPage    = "Page"
	criteriaByIndex = "ByIndex"
	criteriaWindow  = "Window"
	criteriaLatest  = "Latest"
)

func toWireContext(c core.ActionContext) wireContext {
	return wireContext{
		BotID:     c.BotID,
		Scope:     c.Scope,
		Initiator: c.Initiator,
	}
}

// tagged encodes v as {"<tag>": v}.
func tagged(tag string, v any) (json.RawMessage, error) {
	inner, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage{tag: inner})
}

// encodeContent encodes message content as an externally tagged object,
// e.g. {"Text":{"text":"hi"}}.
func encodeContent(c core.MessageContent) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("message content is nil")
	}
	return tagged(string(c.ContentKind()), c)
}

// decodeContent is the inverse of encodeContent. Content kinds this SDK does
// not know are returned as nil so newer platforms don't break event reads.
func decodeContent(raw json.RawMessage) (core.MessageContent, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if len(env) != 1 {
		return nil, fmt.Errorf("content must have exactly one variant, got %d", len(env))
	}

	for kind, body := range env {
		var c core.MessageContent
		var err error
		switch core.ContentKind(kind) {
		case core.ContentText:
			var v core.TextContent
			err = json.Unmarshal(body, &v)
			c = v
		case core.ContentImage:
			var v core.ImageContent
			err = json.Unmarshal(body, &v)
			c = v
		case core.ContentFile:
			var v core.FileContent
			err = json.Unmarshal(body, &v)
			c = v
		case core.ContentPoll:
			var v core.PollContent
			err = json.Unmarshal(body, &v)
			c = v
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, nil
}

// encodeCriteria encodes selection criteria as an externally tagged object,
// e.g. {"Page":{"start_index":0,...}}.
func encodeCriteria(c core.EventsSelectionCriteria) (json.RawMessage, error) {
	switch v := c.(type) {
	case core.EventsPage:
		return tagged(criteriaPage, v)
	case core.EventsByIndex:
		return tagged(criteriaByIndex, v)
	case core.EventsWindow:
		return tagged(criteriaWindow, v)
	case core.EventsLatest:
		return tagged(criteriaLatest, v)
	default:
		return nil, fmt.Errorf("unsupported events selection criteria %T", c)
	}
}

func buildSendMessageBody(req *core.SendMessageRequest) (*sendMessageBody, error) {
	content, err := encodeContent(req.Content)
	if err != nil {
		return nil, err
	}
	return &sendMessageBody{
		Context:            toWireContext(req.Context),
		Content:            content,
		ChannelID:          req.ChannelID,
		Thread:             req.Thread,
		MessageID:          req.MessageID,
		BlockLevelMarkdown: req.BlockLevelMarkdown,
		Finalised:          req.Finalised,
	}, nil
}

func mapSendMessageResult(r *sendMessageResult, req *core.SendMessageRequest) *core.SendMessageResponse {
	resp := &core.SendMessageResponse{
		MessageID:    r.MessageID,
		EventIndex:   r.EventIndex,
		MessageIndex: r.MessageIndex,
		Timestamp:    fromMillis(r.Timestamp),
	}
	if resp.MessageID == "" {
		resp.MessageID = req.MessageID
	}
	if r.ExpiresAt != nil {
		t := fromMillis(*r.ExpiresAt)
		resp.ExpiresAt = &t
	}
	return resp
}

func buildCreateChannelBody(req *core.CreateChannelRequest) *createChannelBody {
	return &createChannelBody{
		Context:                     toWireContext(req.Context),
		Name:                        req.Name,
		IsPublic:                    req.IsPublic,
		Description:                 req.Description,
		Rules:                       req.Rules,
		HistoryVisibleToNewJoiners:  req.HistoryVisibleToNewJoiners,
		MessagesVisibleToNonMembers: req.MessagesVisibleToNonMembers,
		EventsTTL:                   durationToMillis(req.EventsTTL),
		ExternalURL:                 req.ExternalURL,
	}
}

func mapChatDetailsResult(r *chatDetailsResult) *core.ChatDetailsResponse {
	return &core.ChatDetailsResponse{
		Name:                        r.Name,
		Description:                 r.Description,
		AvatarID:                    r.AvatarID,
		IsPublic:                    r.IsPublic,
		HistoryVisibleToNewJoiners:  r.HistoryVisibleToNewJoiners,
		MessagesVisibleToNonMembers: r.MessagesVisibleToNonMembers,
		Rules:                       r.Rules,
		EventsTTL:                   millisToDuration(r.EventsTTL),
		MemberCount:                 r.MemberCount,
		Frozen:                      r.Frozen,
		LatestEventIndex:            r.LatestEventIndex,
		LatestMessageIndex:          r.LatestMessageIndex,
		LastUpdated:                 fromMillis(r.LastUpdated),
		ExternalURL:                 r.ExternalURL,
	}
}

func buildChatEventsBody(req *core.ChatEventsRequest) (*chatEventsBody, error) {
	criteria, err := encodeCriteria(req.Criteria)
	if err != nil {
		return nil, err
	}
	return &chatEventsBody{
		Context:   toWireContext(req.Context),
		ChannelID: req.ChannelID,
		Thread:    req.Thread,
		Criteria:  criteria,
	}, nil
}

func mapChatEventsResult(r *chatEventsResult) (*core.ChatEventsResponse, error) {
	events := make([]core.ChatEvent, 0, len(r.Events))
	for _, e := range r.Events {
		ev := core.ChatEvent{
			Index:     e.Index,
			Timestamp: fromMillis(e.Timestamp),
			Kind:      e.Kind,
			Channel:   e.Channel,
			User:      e.User,
		}
		if e.Message != nil {
			content, err := decodeContent(e.Message.Content)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", e.Index, err)
			}
			ev.Message = &core.MessageEvent{
				MessageIndex: e.Message.MessageIndex,
				MessageID:    e.Message.MessageID,
				Sender:       e.Message.Sender,
				Content:      content,
				Thread:       e.Message.Thread,
				Edited:       e.Message.Edited,
				BotMessage:   e.Message.BotMessage,
				Finalised:    e.Message.Finalised,
			}
		}
		events = append(events, ev)
	}
	return &core.ChatEventsResponse{
		Events:           events,
		LatestEventIndex: r.LatestEventIndex,
		ChatLastUpdated:  fromMillis(r.ChatLastUpdated),
	}, nil
}
