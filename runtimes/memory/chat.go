package memory

import (
	"time"

	"github.com/petal-labs/ocbot/core"
)

// chat is the state of one conversation. Guarded by Runtime.mu.
type chat struct {
	info        ChatInfo
	events      []core.ChatEvent
	nextMessage core.MessageIndex
	lastUpdated time.Time
	eventsTTL   *time.Duration
	externalURL string
}

func newChat(info ChatInfo) *chat {
	return &chat{info: info}
}

// append stamps e with the next index and stores it.
func (c *chat) append(now time.Time, e core.ChatEvent) core.ChatEvent {
	e.Index = core.EventIndex(len(c.events))
	e.Timestamp = now
	c.events = append(c.events, e)
	c.lastUpdated = now
	return e
}

// replaceable returns the unfinalised message event with the given id.
func (c *chat) replaceable(id core.MessageID) (*core.ChatEvent, bool) {
	for i := range c.events {
		m := c.events[i].Message
		if c.events[i].Kind == core.EventMessage && m != nil && m.MessageID == id && !m.Finalised {
			return &c.events[i], true
		}
	}
	return nil, false
}

func (c *chat) latestEventIndex() core.EventIndex {
	if len(c.events) == 0 {
		return 0
	}
	return c.events[len(c.events)-1].Index
}

func (c *chat) details() *core.ChatDetailsResponse {
	d := &core.ChatDetailsResponse{
		Name:                        c.info.Name,
		Description:                 c.info.Description,
		IsPublic:                    c.info.IsPublic,
		HistoryVisibleToNewJoiners:  c.info.HistoryVisibleToNewJoiners,
		MessagesVisibleToNonMembers: c.info.MessagesVisibleToNonMembers,
		Rules:                       c.info.Rules,
		EventsTTL:                   c.eventsTTL,
		MemberCount:                 uint32(len(c.info.Members)),
		Frozen:                      c.info.Frozen,
		LatestEventIndex:            c.latestEventIndex(),
		LastUpdated:                 c.lastUpdated,
		ExternalURL:                 c.externalURL,
	}
	if c.nextMessage > 0 {
		latest := c.nextMessage - 1
		d.LatestMessageIndex = &latest
	}
	return d
}

// visible returns the events a read can see: everything outside threads, or
// only the replies of one thread.
func (c *chat) visible(thread *core.MessageIndex) []core.ChatEvent {
	if thread == nil {
		out := make([]core.ChatEvent, 0, len(c.events))
		for _, e := range c.events {
			if e.Message == nil || e.Message.Thread == nil {
				out = append(out, e)
			}
		}
		return out
	}
	var out []core.ChatEvent
	for _, e := range c.events {
		if e.Message != nil && e.Message.Thread != nil && *e.Message.Thread == *thread {
			out = append(out, e)
		}
	}
	return out
}

// selectEvents applies criteria and returns matches in ascending index order.
func (c *chat) selectEvents(criteria core.EventsSelectionCriteria, thread *core.MessageIndex) []core.ChatEvent {
	out := []core.ChatEvent{}
	if core.IsEmpty(criteria) {
		return out
	}
	events := c.visible(thread)

	switch v := criteria.(type) {
	case core.EventsPage:
		start := -1
		for i, e := range events {
			if v.Ascending && e.Index >= v.StartIndex {
				start = i
				break
			}
			if !v.Ascending && e.Index <= v.StartIndex {
				start = i
			}
		}
		if start < 0 {
			return out
		}
		step := 1
		if !v.Ascending {
			step = -1
		}
		var picked []core.ChatEvent
		var messages uint32
		for i := start; i >= 0 && i < len(events); i += step {
			if uint32(len(picked)) >= v.MaxEvents || messages >= v.MaxMessages {
				break
			}
			picked = append(picked, events[i])
			if events[i].Kind == core.EventMessage {
				messages++
			}
		}
		if !v.Ascending {
			reverse(picked)
		}
		return append(out, picked...)

	case core.EventsByIndex:
		wanted := make(map[core.EventIndex]bool, len(v.Events))
		for _, idx := range v.Events {
			wanted[idx] = true
		}
		for _, e := range events {
			if wanted[e.Index] {
				out = append(out, e)
			}
		}
		return out

	case core.EventsWindow:
		mid := -1
		for i, e := range events {
			if e.Message != nil && e.Message.MessageIndex == v.MidPoint {
				mid = i
				break
			}
		}
		if mid < 0 {
			return out
		}
		lo, hi := mid, mid
		count := uint32(1)
		messages := uint32(1)
		for count < v.MaxEvents && messages < v.MaxMessages && (lo > 0 || hi < len(events)-1) {
			if hi < len(events)-1 {
				hi++
				count++
				if events[hi].Kind == core.EventMessage {
					messages++
				}
			}
			if count < v.MaxEvents && messages < v.MaxMessages && lo > 0 {
				lo--
				count++
				if events[lo].Kind == core.EventMessage {
					messages++
				}
			}
		}
		return append(out, events[lo:hi+1]...)

	case core.EventsLatest:
		n := int(v.MaxEvents)
		if n > len(events) {
			n = len(events)
		}
		return append(out, events[len(events)-n:]...)
	}
	return out
}

func reverse(events []core.ChatEvent) {
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}

// cloneEvents copies events so callers never share state with the store.
func cloneEvents(events []core.ChatEvent) []core.ChatEvent {
	out := make([]core.ChatEvent, len(events))
	for i, e := range events {
		if e.Message != nil {
			m := *e.Message
			e.Message = &m
		}
		if e.Channel != nil {
			ch := *e.Channel
			e.Channel = &ch
		}
		out[i] = e
	}
	return out
}
