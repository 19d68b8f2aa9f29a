package directory

import (
	"context"
	"sync"

	"telegram-notify-relay/internal/domain/model"
	"telegram-notify-relay/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ repository.RecipientDirectory = (*Directory)(nil)

// Directory is the in-memory access-token -> recipient mapping. It is read on
// every delivery request and written only when a new recipient registers, so
// a RWMutex keeps lookups cheap.
type Directory struct {
	mu      sync.RWMutex
	byToken map[string]model.Recipient
	log     *zerolog.Logger
}

func New(logger *zerolog.Logger) *Directory {
	return &Directory{
		byToken: make(map[string]model.Recipient),
		log:     logger,
	}
}

func (d *Directory) Resolve(token string) (model.Recipient, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.byToken[token]
	return r, ok
}

// FindByUsername scans for an already registered username. The directory is
// small (one entry per person who ever talked to the bot), so a linear scan
// beats maintaining a second index.
func (d *Directory) FindByUsername(username string) (model.Recipient, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.byToken {
		if r.Username == username {
			return r, true
		}
	}
	return model.Recipient{}, false
}

func (d *Directory) Put(r model.Recipient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byToken[r.Token] = r
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byToken)
}

// LoadFrom bulk-fetches recipients from the remote store. A load failure is
// logged and leaves the directory empty; the process keeps serving.
func (d *Directory) LoadFrom(ctx context.Context, store repository.RecipientStore) {
	recipients, err := store.LoadAll(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("recipient store load failed; starting with empty directory")
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range recipients {
		d.byToken[r.Token] = r
	}
	d.log.Info().Int("recipients", len(recipients)).Msg("recipient directory load complete")
}
