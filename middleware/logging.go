package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// WithLogging logs every runtime call at debug level on start and at info or
// warn level on completion. Message content and tokens are never logged.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, req core.ActionRequest) (any, error) {
			attrs := []any{
				slog.String("action", string(req.Action())),
				slog.String("bot_id", string(req.ActionContext().BotID)),
			}
			if ci := CallInfoFromContext(ctx); ci != nil {
				attrs = append(attrs, slog.String("runtime", ci.Runtime))
				if ci.Attempt > 1 {
					attrs = append(attrs, slog.Int("attempt", ci.Attempt))
				}
			}

			logger.DebugContext(ctx, "action start", attrs...)
			start := time.Now()

			resp, err := next(ctx, req)

			attrs = append(attrs, slog.Duration("duration", time.Since(start)))
			if err != nil {
				logger.WarnContext(ctx, "action failed", append(attrs, slog.Any("error", err))...)
			} else {
				logger.InfoContext(ctx, "action completed", attrs...)
			}
			return resp, err
		}
	}
}
