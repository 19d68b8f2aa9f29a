package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"telegram-notify-relay/internal/domain/model"
	"telegram-notify-relay/internal/domain/ports/repository"
	"telegram-notify-relay/internal/infra/metrics"
)

// Compile-time check
var _ repository.RecipientStore = (*RecipientStore)(nil)

const (
	recipientKeyPrefix = "recipient:"
	recipientIndexKey  = "recipients"
)

// RecipientStore keeps one JSON document per issued token plus a set index of
// all tokens, for self-hosted deployments without a CouchDB.
type RecipientStore struct {
	client RedisClient
}

func NewRecipientStore(client RedisClient) *RecipientStore {
	return &RecipientStore{client: client}
}

func (s *RecipientStore) Save(ctx context.Context, r model.Recipient) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, recipientKeyPrefix+r.Token, data, 0); err != nil {
		return fmt.Errorf("save recipient: %w", err)
	}
	if err := s.client.SAdd(ctx, recipientIndexKey, r.Token); err != nil {
		return fmt.Errorf("index recipient: %w", err)
	}
	return nil
}

func (s *RecipientStore) LoadAll(ctx context.Context) ([]model.Recipient, error) {
	tokens, err := s.client.SMembers(ctx, recipientIndexKey)
	if err != nil {
		metrics.IncStoreOp("load", false)
		return nil, fmt.Errorf("load recipient index: %w", err)
	}
	if len(tokens) == 0 {
		metrics.IncStoreOp("load", true)
		return nil, nil
	}

	keys := make([]string, len(tokens))
	for i, token := range tokens {
		keys[i] = recipientKeyPrefix + token
	}
	values, err := s.client.MGet(ctx, keys...)
	if err != nil {
		metrics.IncStoreOp("load", false)
		return nil, fmt.Errorf("load recipients: %w", err)
	}

	recipients := make([]model.Recipient, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a document; skip
			continue
		}
		var r model.Recipient
		if err := json.Unmarshal([]byte(raw), &r); err != nil || r.IsZero() {
			continue
		}
		recipients = append(recipients, r)
	}
	metrics.IncStoreOp("load", true)
	return recipients, nil
}
