// Package core provides the ocbot client, builders and types for acting on a
// hosted chat platform from a bot.
//
// The core package never talks to the network. Every action is handed to a
// [Runtime], which knows how to reach the platform; bot code only deals with
// contexts, clients and builders.
//
// # Factory, Client and Runtime
//
// A [ClientFactory] owns one Runtime and hands out a fresh [Client] for each
// action:
//
//	rt := httpapi.New(os.Getenv("OCBOT_TOKEN"))
//	factory := core.NewClientFactory(rt,
//	    core.WithTelemetry(myTelemetryHook),
//	)
//	client := core.BuildClient(factory, commandCtx)
//
// A Client is generic over its context type. Any type implementing
// [ContextConverter] can be used; [ActionContext], [BotCommandContext] and
// [APIKeyContext] are provided. Every action method converts the context to
// the canonical [ActionContext] before building the request.
//
// # Builders
//
// Each action method consumes the Client and returns a builder:
//
//	result, err := client.SendTextMessage("hello").
//	    WithBlockLevelMarkdown(true).
//	    FireAndForget().
//	    Execute(ctx)
//
// A Client can start only one action and a builder can be executed only once.
// Go cannot forbid the second call at compile time, so the second attempt
// returns [ErrClientConsumed] or [ErrAlreadySubmitted] and never reaches the
// runtime.
//
// # Fire-and-forget
//
// [SendMessageBuilder.FireAndForget] makes Execute return as soon as the send
// is initiated. The returned [Message] is marked Pending and carries the
// message id chosen for the send, which can be used to correlate the message
// later. Use [SendMessageBuilder.OnResponse] to observe the outcome.
//
// # Error Handling
//
// Every failed action returns an [*InternalError] whose Err field holds one
// of the sentinel errors:
//   - [ErrUnauthorized]: the token was rejected
//   - [ErrNotFound]: the chat or channel does not exist
//   - [ErrRateLimited]: the platform throttled the bot
//   - [ErrBadRequest], [ErrInvalidRequest]: the request was malformed
//   - [ErrServer], [ErrNetwork], [ErrDecode]: transport or platform failures
//
// Use errors.Is to check error types:
//
//	if errors.Is(err, core.ErrNotFound) {
//	    // the channel is already gone
//	}
//
// The core performs no retries. Wrap the runtime with middleware.WithRetry
// when retries are wanted.
//
// # Thread Safety
//
// [ClientFactory] is safe for concurrent use, and Runtimes MUST be.
// [Client] and the builders belong to a single action and should not be
// shared across goroutines.
package core
