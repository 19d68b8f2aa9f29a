package usecase

import (
	"context"
	"strconv"

	"telegram-notify-relay/internal/domain/ports/adapter"
	"telegram-notify-relay/internal/domain/ports/repository"
	"telegram-notify-relay/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ NotifyUseCase = (*notifyUC)(nil)

type NotifyUseCase interface {
	// Notify fans the composed text out over the given access tokens and
	// returns how many recipients passed the delivery gate. Tokens not in
	// the directory are skipped silently; actual sends are fire-and-forget.
	Notify(ctx context.Context, tokens []string, text string) int
}

type notifyUC struct {
	dir  repository.RecipientDirectory
	gate DeliveryGate
	bot  adapter.BotGateway
	log  *zerolog.Logger
}

func NewNotifyUseCase(dir repository.RecipientDirectory, gate DeliveryGate, bot adapter.BotGateway, logger *zerolog.Logger) *notifyUC {
	return &notifyUC{dir: dir, gate: gate, bot: bot, log: logger}
}

func (n *notifyUC) Notify(ctx context.Context, tokens []string, text string) int {
	dispatched := 0
	for _, token := range tokens {
		rcpt, ok := n.dir.Resolve(token)
		if !ok {
			metrics.IncNotification(metrics.ResultUnknownRecipient)
			n.log.Debug().Str("token", token).Msg("skipping unknown recipient token")
			continue
		}

		// The gate is keyed by chat destination, so two tokens pointing at
		// the same chat share one history.
		if !n.gate.ShouldSend(strconv.FormatInt(rcpt.ChatID, 10), text) {
			continue
		}
		dispatched++
		metrics.IncNotification(metrics.ResultSent)
		n.dispatch(ctx, rcpt.ChatID, text)
	}
	return dispatched
}

// dispatch hands the send to the bot gateway without waiting for it. The HTTP
// response must not depend on delivery, so the outcome is observed only by
// the log and the send counter.
func (n *notifyUC) dispatch(ctx context.Context, chatID int64, text string) {
	dispatchID := uuid.NewString()
	logger := n.log.With().Str("dispatch_id", dispatchID).Int64("chat_id", chatID).Logger()
	go func() {
		if err := n.bot.Send(context.WithoutCancel(ctx), chatID, text); err != nil {
			metrics.IncSend(false)
			logger.Error().Err(err).Msg("notification send failed")
			return
		}
		metrics.IncSend(true)
		logger.Debug().Msg("notification sent")
	}()
}
