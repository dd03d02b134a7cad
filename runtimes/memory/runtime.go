// Package memory implements core.Runtime as an in-process fake platform.
//
// It keeps chats, channels and their event lists in memory, which makes it
// useful for tests, examples and dry runs of the CLI:
//
//	rt := memory.New()
//	rt.AddChat(core.GroupChat("g1"), memory.ChatInfo{Name: "general"})
//	factory := core.NewClientFactory(rt)
//
// Fire-and-forget sends are scheduled through Spawn, so tests can call Wait
// to observe their effect deterministically.
//
// The runtime registered as "memory" starts with the chats of WithDemoChats
// and keeps no state between processes.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petal-labs/ocbot/core"
)

const runtimeID = "memory"

// ChatInfo seeds the descriptive fields of a chat.
type ChatInfo struct {
	Name                        string
	Description                 string
	IsPublic                    bool
	HistoryVisibleToNewJoiners  bool
	MessagesVisibleToNonMembers bool
	Rules                       string
	Members                     []core.UserID
	Frozen                      bool
}

// Runtime is an in-memory platform. It is safe for concurrent use.
type Runtime struct {
	mu          sync.Mutex
	chats       map[core.Chat]*chat
	communities map[core.CommunityID]bool
	failures    map[core.ActionKind][]error
	now         func() time.Time

	wg sync.WaitGroup
}

// Option configures a memory runtime.
type Option func(*Runtime)

// Chats seeded by WithDemoChats.
var (
	DemoGroup     = core.GroupChat("demo")
	DemoCommunity = core.CommunityID("demo")
	DemoChannel   = core.CommunityChannel(DemoCommunity, "general")
)

// WithDemoChats seeds the group chat DemoGroup and the community
// DemoCommunity with one channel, DemoChannel. Runtimes created through the
// registry use it so CLI dry runs have somewhere to send.
func WithDemoChats() Option {
	return func(r *Runtime) {
		r.AddChat(DemoGroup, ChatInfo{Name: "demo", Description: "in-memory demo chat", IsPublic: true})
		r.AddChat(DemoChannel, ChatInfo{Name: "general", Description: "in-memory demo channel", IsPublic: true})
	}
}

// WithClock sets the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates an empty memory runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		chats:       make(map[core.Chat]*chat),
		communities: make(map[core.CommunityID]bool),
		failures:    make(map[core.ActionKind][]error),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the runtime identifier.
func (r *Runtime) ID() string {
	return runtimeID
}

// AddChat registers a chat. Adding a community channel also registers its
// community. Adding an existing chat replaces its info but keeps its events.
func (r *Runtime) AddChat(c core.Chat, info ChatInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.Kind == core.ChatChannel {
		r.communities[core.CommunityID(c.ID)] = true
	}
	if existing, ok := r.chats[c]; ok {
		existing.info = info
		return
	}
	ch := newChat(info)
	ch.append(r.now(), core.ChatEvent{Kind: core.EventChatCreated})
	r.chats[c] = ch
}

// AddCommunity registers a community with no channels.
func (r *Runtime) AddCommunity(id core.CommunityID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.communities[id] = true
}

// FailNext makes the next call of action fail with err. Calls queue up.
func (r *Runtime) FailNext(action core.ActionKind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[action] = append(r.failures[action], err)
}

// Messages returns the messages of a chat in send order.
func (r *Runtime) Messages(c core.Chat) []core.MessageEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.chats[c]
	if !ok {
		return nil
	}
	var out []core.MessageEvent
	for _, e := range ch.events {
		if e.Kind == core.EventMessage && e.Message != nil {
			out = append(out, *e.Message)
		}
	}
	return out
}

// Channels returns the ids of the live channels in a community.
func (r *Runtime) Channels(community core.CommunityID) []core.ChannelID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []core.ChannelID
	for c := range r.chats {
		if c.Kind == core.ChatChannel && c.ID == string(community) {
			out = append(out, c.ChannelID)
		}
	}
	return out
}

// Spawn runs fn on a new goroutine tracked by Wait.
func (r *Runtime) Spawn(fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}

// Wait blocks until every spawned send has finished.
func (r *Runtime) Wait() {
	r.wg.Wait()
}

// takeFailure pops an injected failure. Caller holds mu.
func (r *Runtime) takeFailure(action core.ActionKind) error {
	queue := r.failures[action]
	if len(queue) == 0 {
		return nil
	}
	err := queue[0]
	r.failures[action] = queue[1:]
	return err
}

// resolve finds the chat an action targets. Caller holds mu.
func (r *Runtime) resolve(actx core.ActionContext, channelID core.ChannelID) (core.Chat, *chat, error) {
	var target core.Chat
	switch actx.Scope.Kind {
	case core.ScopeCommunity:
		if channelID == "" {
			return target, nil, fmt.Errorf("%w: community scope requires a channel id", core.ErrBadRequest)
		}
		target = core.CommunityChannel(actx.Scope.CommunityID, channelID)
	default:
		target = actx.Scope.Chat
		if channelID != "" && target.Kind == core.ChatChannel {
			target.ChannelID = channelID
		}
	}

	ch, ok := r.chats[target]
	if !ok {
		return target, nil, fmt.Errorf("%w: chat %s/%s%s", core.ErrNotFound, target.Kind, target.ID, channelSuffix(target))
	}
	return target, ch, nil
}

// communityOf returns the community an action is scoped to, if any.
func communityOf(actx core.ActionContext) core.CommunityID {
	if actx.Scope.Kind == core.ScopeCommunity {
		return actx.Scope.CommunityID
	}
	if actx.Scope.Chat.Kind == core.ChatChannel {
		return core.CommunityID(actx.Scope.Chat.ID)
	}
	return ""
}

func channelSuffix(c core.Chat) string {
	if c.ChannelID == "" {
		return ""
	}
	return "/" + string(c.ChannelID)
}

func (r *Runtime) fail(action core.ActionKind, err error) error {
	if err == nil {
		return nil
	}
	return &core.InternalError{
		Runtime: runtimeID,
		Action:  action,
		Message: err.Error(),
		Err:     err,
	}
}

// SendMessage appends a message to the target chat. Sending again with the
// id of an unfinalised message replaces that message.
func (r *Runtime) SendMessage(ctx context.Context, req *core.SendMessageRequest) (*core.SendMessageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(core.ActionSendMessage, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(core.ActionSendMessage); err != nil {
		return nil, r.fail(core.ActionSendMessage, err)
	}
	_, ch, err := r.resolve(req.Context, req.ChannelID)
	if err != nil {
		return nil, r.fail(core.ActionSendMessage, err)
	}
	if ch.info.Frozen {
		return nil, r.fail(core.ActionSendMessage, core.ErrFrozen)
	}

	id := req.MessageID
	if id == "" {
		id = core.MessageID(uuid.NewString())
	}
	now := r.now()

	if ev, ok := ch.replaceable(id); ok {
		ev.Message.Content = req.Content
		ev.Message.Edited = true
		ev.Message.Finalised = req.Finalised
		edited := ch.append(now, core.ChatEvent{Kind: core.EventMessageEdited, User: req.Context.BotID})
		return &core.SendMessageResponse{
			MessageID:    id,
			EventIndex:   edited.Index,
			MessageIndex: ev.Message.MessageIndex,
			Timestamp:    now,
		}, nil
	}

	msgIndex := ch.nextMessage
	ch.nextMessage++
	ev := ch.append(now, core.ChatEvent{
		Kind: core.EventMessage,
		Message: &core.MessageEvent{
			MessageIndex: msgIndex,
			MessageID:    id,
			Sender:       req.Context.BotID,
			Content:      req.Content,
			Thread:       req.Thread,
			BotMessage:   true,
			Finalised:    req.Finalised,
		},
	})

	return &core.SendMessageResponse{
		MessageID:    id,
		EventIndex:   ev.Index,
		MessageIndex: msgIndex,
		Timestamp:    now,
	}, nil
}

// CreateChannel adds a channel to the scoped community.
func (r *Runtime) CreateChannel(ctx context.Context, req *core.CreateChannelRequest) (*core.CreateChannelResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(core.ActionCreateChannel, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(core.ActionCreateChannel); err != nil {
		return nil, r.fail(core.ActionCreateChannel, err)
	}
	community := communityOf(req.Context)
	if community == "" || !r.communities[community] {
		return nil, r.fail(core.ActionCreateChannel, fmt.Errorf("%w: community %q", core.ErrNotFound, community))
	}
	for c, ch := range r.chats {
		if c.Kind == core.ChatChannel && c.ID == string(community) && ch.info.Name == req.Name {
			return nil, r.fail(core.ActionCreateChannel, fmt.Errorf("%w: channel name %q already taken", core.ErrBadRequest, req.Name))
		}
	}

	id := core.ChannelID(uuid.NewString())
	ch := newChat(ChatInfo{
		Name:                        req.Name,
		Description:                 req.Description,
		IsPublic:                    req.IsPublic,
		HistoryVisibleToNewJoiners:  req.HistoryVisibleToNewJoiners,
		MessagesVisibleToNonMembers: req.MessagesVisibleToNonMembers,
		Rules:                       req.Rules,
		Members:                     []core.UserID{req.Context.BotID},
	})
	ch.eventsTTL = req.EventsTTL
	ch.externalURL = req.ExternalURL
	ch.append(r.now(), core.ChatEvent{
		Kind:    core.EventChannelCreated,
		Channel: &core.ChannelEvent{ChannelID: id, Name: req.Name, By: req.Context.BotID},
	})
	r.chats[core.CommunityChannel(community, id)] = ch

	return &core.CreateChannelResponse{ChannelID: id}, nil
}

// DeleteChannel removes a channel and records a channel-deleted event in
// every other channel of the community. Unknown channels yield ErrNotFound.
func (r *Runtime) DeleteChannel(ctx context.Context, req *core.DeleteChannelRequest) (*core.DeleteChannelResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(core.ActionDeleteChannel, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(core.ActionDeleteChannel); err != nil {
		return nil, r.fail(core.ActionDeleteChannel, err)
	}
	community := communityOf(req.Context)
	key := core.CommunityChannel(community, req.ChannelID)
	deleted, ok := r.chats[key]
	if !ok {
		return nil, r.fail(core.ActionDeleteChannel, fmt.Errorf("%w: channel %q", core.ErrNotFound, req.ChannelID))
	}
	delete(r.chats, key)

	// The remaining channels of the community see the deletion.
	now := r.now()
	for c, ch := range r.chats {
		if c.Kind != core.ChatChannel || c.ID != string(community) {
			continue
		}
		ch.append(now, core.ChatEvent{
			Kind:    core.EventChannelDeleted,
			Channel: &core.ChannelEvent{ChannelID: req.ChannelID, Name: deleted.info.Name, By: req.Context.BotID},
		})
	}
	return &core.DeleteChannelResponse{}, nil
}

// ChatDetails describes the target chat.
func (r *Runtime) ChatDetails(ctx context.Context, req *core.ChatDetailsRequest) (*core.ChatDetailsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(core.ActionChatDetails, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(core.ActionChatDetails); err != nil {
		return nil, r.fail(core.ActionChatDetails, err)
	}
	_, ch, err := r.resolve(req.Context, req.ChannelID)
	if err != nil {
		return nil, r.fail(core.ActionChatDetails, err)
	}
	return ch.details(), nil
}

// ChatEvents returns the events selected by the request criteria.
func (r *Runtime) ChatEvents(ctx context.Context, req *core.ChatEventsRequest) (*core.ChatEventsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, r.fail(core.ActionChatEvents, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.takeFailure(core.ActionChatEvents); err != nil {
		return nil, r.fail(core.ActionChatEvents, err)
	}
	_, ch, err := r.resolve(req.Context, req.ChannelID)
	if err != nil {
		return nil, r.fail(core.ActionChatEvents, err)
	}

	return &core.ChatEventsResponse{
		Events:           cloneEvents(ch.selectEvents(req.Criteria, req.Thread)),
		LatestEventIndex: ch.latestEventIndex(),
		ChatLastUpdated:  ch.lastUpdated,
	}, nil
}

var (
	_ core.Runtime = (*Runtime)(nil)
	_ core.Spawner = (*Runtime)(nil)
)
