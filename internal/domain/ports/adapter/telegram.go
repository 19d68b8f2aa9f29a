package adapter

import "context"

// BotGateway is the outbound send primitive of the messaging backend.
// Sends are best-effort; callers that must not block treat failures as
// log-only events.
type BotGateway interface {
	// Send dispatches text to a chat with Markdown rendering enabled.
	Send(ctx context.Context, chatID int64, text string) error
}
