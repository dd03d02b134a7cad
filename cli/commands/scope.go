package commands

import (
	"fmt"
	"strings"

	"github.com/petal-labs/ocbot/core"
)

// parseChat parses the --chat flag.
func parseChat(s string) (core.Chat, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return core.Chat{}, fmt.Errorf("invalid chat %q: want direct:<user>, group:<id> or channel:<community>/<channel>", s)
	}

	switch kind {
	case "direct":
		return core.DirectChat(id), nil
	case "group":
		return core.GroupChat(id), nil
	case "channel":
		community, channel, ok := strings.Cut(id, "/")
		if !ok || community == "" || channel == "" {
			return core.Chat{}, fmt.Errorf("invalid channel chat %q: want channel:<community>/<channel>", s)
		}
		return core.CommunityChannel(core.CommunityID(community), core.ChannelID(channel)), nil
	default:
		return core.Chat{}, fmt.Errorf("unknown chat kind %q", kind)
	}
}

// chatContext builds an action context scoped to the --chat flag.
func (a *App) chatContext() (core.ActionContext, error) {
	if a.chat == "" {
		return core.ActionContext{}, exitWithCode(ExitValidation, fmt.Errorf("chat required: use --chat"))
	}
	chat, err := parseChat(a.chat)
	if err != nil {
		return core.ActionContext{}, exitWithCode(ExitValidation, err)
	}
	return a.actionContext(core.ChatScope(chat)), nil
}

// communityContext builds an action context scoped to the --community flag.
func (a *App) communityContext() (core.ActionContext, error) {
	if a.community == "" {
		return core.ActionContext{}, exitWithCode(ExitValidation, fmt.Errorf("community required: use --community"))
	}
	return a.actionContext(core.CommunityScope(core.CommunityID(a.community))), nil
}

// actionContext leaves Token empty; the runtime falls back to its own token.
func (a *App) actionContext(scope core.ActionScope) core.ActionContext {
	return core.ActionContext{
		BotID: core.UserID(a.botID),
		Scope: scope,
	}
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
