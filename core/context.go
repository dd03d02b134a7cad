package core

// ScopeKind tells whether an action targets a chat or a whole community.
type ScopeKind string

const (
	ScopeChat      ScopeKind = "chat"
	ScopeCommunity ScopeKind = "community"
)

// ActionScope is where an action takes effect.
type ActionScope struct {
	Kind ScopeKind `json:"kind"`

	// Chat is set when Kind is ScopeChat.
	Chat Chat `json:"chat,omitempty"`

	// Thread is the root message index when acting inside a thread.
	Thread *MessageIndex `json:"thread,omitempty"`

	// MessageID is reserved by the platform for the reply to a command.
	MessageID MessageID `json:"message_id,omitempty"`

	// CommunityID is set when Kind is ScopeCommunity.
	CommunityID CommunityID `json:"community_id,omitempty"`
}

// ChatScope returns a scope targeting the given chat.
func ChatScope(chat Chat) ActionScope {
	return ActionScope{Kind: ScopeChat, Chat: chat}
}

// CommunityScope returns a scope targeting a community.
func CommunityScope(id CommunityID) ActionScope {
	return ActionScope{Kind: ScopeCommunity, CommunityID: id}
}

// ActionContext is the canonical identity and addressing data carried by
// every action. Builders only ever see this form.
type ActionContext struct {
	BotID      UserID      `json:"bot_id"`
	APIGateway string      `json:"api_gateway"`
	Scope      ActionScope `json:"scope"`

	// Initiator is the user who triggered the action. Empty for autonomous bots.
	Initiator UserID `json:"initiator,omitempty"`

	// Token authorizes the action with the platform.
	Token Secret `json:"-"`
}

// ToActionContext returns c unchanged.
func (c ActionContext) ToActionContext() ActionContext {
	return c
}

// ContextConverter is implemented by every context type usable with a Client.
// The conversion must be total: it cannot fail and must carry every field the
// canonical form needs.
type ContextConverter interface {
	ToActionContext() ActionContext
}

// CommandArg is a single named argument of a bot command.
type CommandArg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BotCommand describes the command a user invoked.
type BotCommand struct {
	Name      string       `json:"name"`
	Args      []CommandArg `json:"args,omitempty"`
	Initiator UserID       `json:"initiator"`
}

// Arg returns the value of the named argument.
func (c BotCommand) Arg(name string) (string, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// BotCommandContext is the context a bot receives when a user runs one of
// its commands.
type BotCommandContext struct {
	Command    BotCommand  `json:"command"`
	BotID      UserID      `json:"bot_id"`
	APIGateway string      `json:"api_gateway"`
	Scope      ActionScope `json:"scope"`
	Token      Secret      `json:"-"`
}

// Initiator returns the user who ran the command.
func (c BotCommandContext) Initiator() UserID {
	return c.Command.Initiator
}

// ToActionContext converts the command context into the canonical form.
func (c BotCommandContext) ToActionContext() ActionContext {
	return ActionContext{
		BotID:      c.BotID,
		APIGateway: c.APIGateway,
		Scope:      c.Scope,
		Initiator:  c.Command.Initiator,
		Token:      c.Token,
	}
}

// APIKeyContext is used by bots acting autonomously with an API key.
type APIKeyContext struct {
	BotID      UserID      `json:"bot_id"`
	APIGateway string      `json:"api_gateway"`
	Scope      ActionScope `json:"scope"`
	APIKey     Secret      `json:"-"`
}

// ToActionContext converts the API key context into the canonical form.
func (c APIKeyContext) ToActionContext() ActionContext {
	return ActionContext{
		BotID:      c.BotID,
		APIGateway: c.APIGateway,
		Scope:      c.Scope,
		Token:      c.APIKey,
	}
}

var (
	_ ContextConverter = ActionContext{}
	_ ContextConverter = BotCommandContext{}
	_ ContextConverter = APIKeyContext{}
)
