package core

import "testing"

func TestBotCommandContextConversion(t *testing.T) {
	ctx := testCommandContext()
	ac := ctx.ToActionContext()

	if ac.BotID != ctx.BotID {
		t.Errorf("BotID = %q, want %q", ac.BotID, ctx.BotID)
	}
	if ac.Initiator != "user-1" || ctx.Initiator() != "user-1" {
		t.Errorf("Initiator = %q, want user-1", ac.Initiator)
	}
	if ac.Scope.MessageID != "reserved-1" {
		t.Errorf("Scope.MessageID = %q, want reserved-1", ac.Scope.MessageID)
	}
	if ac.Token.Expose() != "tok" {
		t.Error("token should be carried over")
	}
}

func TestAPIKeyContextConversion(t *testing.T) {
	ctx := testCommunityContext()
	ac := ctx.ToActionContext()

	if ac.Token.Expose() != "key" {
		t.Error("api key should become the action token")
	}
	if ac.Initiator != "" {
		t.Errorf("autonomous context should have no initiator, got %q", ac.Initiator)
	}
	if ac.Scope.Kind != ScopeCommunity || ac.Scope.CommunityID != "community-1" {
		t.Errorf("Scope = %+v", ac.Scope)
	}
}

func TestActionContextConversionIsIdentity(t *testing.T) {
	ac := testCommandContext().ToActionContext()
	again := ac.ToActionContext()

	if again.BotID != ac.BotID || again.Initiator != ac.Initiator || again.Scope.Chat != ac.Scope.Chat {
		t.Errorf("ToActionContext() = %+v, want %+v", again, ac)
	}
}

func TestBotCommandArg(t *testing.T) {
	cmd := BotCommand{Args: []CommandArg{{Name: "name", Value: "world"}}}

	if v, ok := cmd.Arg("name"); !ok || v != "world" {
		t.Errorf("Arg(name) = %q, %v", v, ok)
	}
	if _, ok := cmd.Arg("missing"); ok {
		t.Error("Arg(missing) should not be found")
	}
}

func TestScopeConstructors(t *testing.T) {
	chat := ChatScope(DirectChat("u1"))
	if chat.Kind != ScopeChat || chat.Chat.ID != "u1" {
		t.Errorf("ChatScope() = %+v", chat)
	}
	community := CommunityScope("c1")
	if community.Kind != ScopeCommunity || community.CommunityID != "c1" {
		t.Errorf("CommunityScope() = %+v", community)
	}
}
