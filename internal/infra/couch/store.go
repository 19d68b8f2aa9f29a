package couch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"telegram-notify-relay/internal/config"
	"telegram-notify-relay/internal/domain/model"
	"telegram-notify-relay/internal/domain/ports/repository"

	"telegram-notify-relay/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ repository.RecipientStore = (*Store)(nil)

// Store talks to a CouchDB-compatible document store (the original deployment
// used Cloudant) over plain HTTP with basic auth. One document per issued
// token; a design document view lists them all.
type Store struct {
	base     string
	db       string
	username string
	password string
	client   *http.Client
	log      *zerolog.Logger
}

func NewStore(cfg *config.StoreConfig, logger *zerolog.Logger) *Store {
	return &Store{
		base:     strings.TrimRight(cfg.URL, "/"),
		db:       cfg.Database,
		username: cfg.Username,
		password: cfg.Password,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      logger,
	}
}

// viewResponse mirrors the CouchDB _view/all result shape.
type viewResponse struct {
	TotalRows int `json:"total_rows"`
	Rows      []struct {
		Value model.Recipient `json:"value"`
	} `json:"rows"`
}

func (s *Store) LoadAll(ctx context.Context) ([]model.Recipient, error) {
	url := fmt.Sprintf("%s/%s/_design/list/_view/all", s.base, s.db)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.username, s.password)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.IncStoreOp("load", false)
		return nil, fmt.Errorf("load recipients: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.IncStoreOp("load", false)
		return nil, fmt.Errorf("load recipients: unexpected status %d", resp.StatusCode)
	}

	var view viewResponse
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		metrics.IncStoreOp("load", false)
		return nil, fmt.Errorf("decode recipients: %w", err)
	}

	recipients := make([]model.Recipient, 0, len(view.Rows))
	for _, row := range view.Rows {
		if row.Value.IsZero() {
			continue
		}
		recipients = append(recipients, row.Value)
	}
	metrics.IncStoreOp("load", true)
	return recipients, nil
}

func (s *Store) Save(ctx context.Context, r model.Recipient) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/", s.base, s.db)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("save recipient: %w", err)
	}
	defer resp.Body.Close()

	// CouchDB answers 201, or 202 when the write is only quorum-queued.
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("save recipient: unexpected status %d", resp.StatusCode)
	}
	return nil
}
