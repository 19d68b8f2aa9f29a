package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-notify-relay/internal/domain/ports/adapter"
)

// Ensure interface compliance
var _ adapter.BotGateway = (*NoopBotGateway)(nil)

// NoopBotGateway implements adapter.BotGateway for local/dev testing.
// It logs messages instead of sending real Telegram messages.
type NoopBotGateway struct {
	log *zerolog.Logger
}

func NewNoopBotGateway(logger *zerolog.Logger) *NoopBotGateway {
	return &NoopBotGateway{log: logger}
}

// Send logs the message and simulates small delay.
func (b *NoopBotGateway) Send(ctx context.Context, chatID int64, text string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.log.Info().Int64("chat_id", chatID).Str("text", text).Msg("noop send")
	return nil
}
