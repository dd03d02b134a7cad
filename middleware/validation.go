package middleware

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/petal-labs/ocbot/core"
)

// ValidationConfig sets platform limits checked before a call leaves the
// process. Zero values disable the matching check.
type ValidationConfig struct {
	MaxTextLength        int    // runes per text message
	MaxChannelNameLength int    // runes per channel name
	MaxEventsPerRead     uint32 // events per ChatEvents call
}

// WithValidation rejects requests the platform would refuse anyway, saving
// the round trip. Failures wrap core.ErrInvalidRequest.
func WithValidation(config ValidationConfig) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			if err := validate(config, req); err != nil {
				return nil, fmt.Errorf("%w: %w", core.ErrInvalidRequest, err)
			}
			return next(ctx, req)
		}
	}
}

func validate(cfg ValidationConfig, req core.ActionRequest) error {
	switch r := req.(type) {
	case *core.SendMessageRequest:
		switch c := r.Content.(type) {
		case nil:
			return fmt.Errorf("message content is nil")
		case core.TextContent:
			if cfg.MaxTextLength > 0 && utf8.RuneCountInString(c.Text) > cfg.MaxTextLength {
				return fmt.Errorf("text is %d characters, limit is %d", utf8.RuneCountInString(c.Text), cfg.MaxTextLength)
			}
		case core.PollContent:
			if len(c.Options) < 2 {
				return fmt.Errorf("poll needs at least 2 options, got %d", len(c.Options))
			}
		}
	case *core.CreateChannelRequest:
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return fmt.Errorf("channel name is blank")
		}
		if cfg.MaxChannelNameLength > 0 && utf8.RuneCountInString(name) > cfg.MaxChannelNameLength {
			return fmt.Errorf("channel name is %d characters, limit is %d", utf8.RuneCountInString(name), cfg.MaxChannelNameLength)
		}
	case *core.ChatEventsRequest:
		if cfg.MaxEventsPerRead == 0 {
			return nil
		}
		var n uint32
		switch c := r.Criteria.(type) {
		case core.EventsPage:
			n = c.MaxEvents
		case core.EventsWindow:
			n = c.MaxEvents
		case core.EventsLatest:
			n = c.MaxEvents
		case core.EventsByIndex:
			n = uint32(len(c.Events))
		}
		if n > cfg.MaxEventsPerRead {
			return fmt.Errorf("reading %d events, limit is %d", n, cfg.MaxEventsPerRead)
		}
	}
	return nil
}
