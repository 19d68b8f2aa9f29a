package usecase

import (
	"context"

	"telegram-notify-relay/internal/domain/model"
	"telegram-notify-relay/internal/domain/ports/repository"
	"telegram-notify-relay/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ RegisterUseCase = (*registerUC)(nil)

type RegisterUseCase interface {
	// Register issues an access token for the chat identity. Issuance is
	// idempotent per username: a known username gets its existing token
	// back and existing=true.
	Register(ctx context.Context, chatID int64, username string) (token string, existing bool, err error)
}

type registerUC struct {
	dir   repository.RecipientDirectory
	store repository.RecipientStore
	log   *zerolog.Logger
}

func NewRegisterUseCase(dir repository.RecipientDirectory, store repository.RecipientStore, logger *zerolog.Logger) *registerUC {
	return &registerUC{dir: dir, store: store, log: logger}
}

func (r *registerUC) Register(ctx context.Context, chatID int64, username string) (string, bool, error) {
	if known, ok := r.dir.FindByUsername(username); ok {
		metrics.IncRegistration("existing")
		return known.Token, true, nil
	}

	token, err := generateAccessToken()
	if err != nil {
		return "", false, err
	}
	rcpt, err := model.NewRecipient(token, chatID, username)
	if err != nil {
		return "", false, err
	}

	r.dir.Put(rcpt)
	metrics.IncRegistration("new")
	r.log.Info().Str("username", username).Msg("adding recipient to directory")

	// Persistence is fire-and-forget: a store failure costs durability, not
	// the in-memory registration, and is never surfaced to the registrant.
	go func() {
		if err := r.store.Save(context.WithoutCancel(ctx), rcpt); err != nil {
			metrics.IncStoreOp("save", false)
			r.log.Error().Err(err).Str("username", username).Msg("failed to persist recipient")
			return
		}
		metrics.IncStoreOp("save", true)
		r.log.Info().Str("username", username).Msg("recipient persisted to store")
	}()

	return token, false, nil
}
