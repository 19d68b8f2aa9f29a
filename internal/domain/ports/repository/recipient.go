package repository

import (
	"context"

	"telegram-notify-relay/internal/domain/model"
)

// RecipientStore persists issued token/identity pairs in a remote document
// store. LoadAll is called once at startup; Save is fire-and-forget from the
// caller's point of view.
type RecipientStore interface {
	LoadAll(ctx context.Context) ([]model.Recipient, error)
	Save(ctx context.Context, r model.Recipient) error
}

// RecipientDirectory is the in-memory token -> identity mapping consulted on
// every delivery request. Writes happen only on registration (new key), so
// readers never observe a mutated entry.
type RecipientDirectory interface {
	Resolve(token string) (model.Recipient, bool)
	FindByUsername(username string) (model.Recipient, bool)
	Put(r model.Recipient)
	Len() int
}
