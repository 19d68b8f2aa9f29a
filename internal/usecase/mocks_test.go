package usecase_test

import (
	"context"
	"sync"

	"telegram-notify-relay/internal/domain/model"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Recipient directory ---

type mockDirectory struct {
	mu      sync.Mutex
	byToken map[string]model.Recipient
}

func newMockDirectory(recipients ...model.Recipient) *mockDirectory {
	d := &mockDirectory{byToken: make(map[string]model.Recipient)}
	for _, r := range recipients {
		d.byToken[r.Token] = r
	}
	return d
}

func (d *mockDirectory) Resolve(token string) (model.Recipient, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.byToken[token]
	return r, ok
}

func (d *mockDirectory) FindByUsername(username string) (model.Recipient, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.byToken {
		if r.Username == username {
			return r, true
		}
	}
	return model.Recipient{}, false
}

func (d *mockDirectory) Put(r model.Recipient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byToken[r.Token] = r
}

func (d *mockDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byToken)
}

// --- Delivery gate ---

type mockGate struct {
	mu             sync.Mutex
	ShouldSendFunc func(recipientID, message string) bool
	checked        []string // recipient ids in call order
}

func (g *mockGate) ShouldSend(recipientID, message string) bool {
	g.mu.Lock()
	g.checked = append(g.checked, recipientID)
	g.mu.Unlock()
	if g.ShouldSendFunc != nil {
		return g.ShouldSendFunc(recipientID, message)
	}
	return true
}

func (g *mockGate) HistoryLen(recipientID string) int { return 0 }
func (g *mockGate) Reset()                            {}

func (g *mockGate) Checked() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.checked...)
}

// --- Bot gateway ---

type sentMessage struct {
	ChatID int64
	Text   string
}

type mockBotGateway struct {
	SendErr error
	// Sent receives every Send call; buffered so fire-and-forget goroutines
	// never block.
	Sent chan sentMessage
}

func newMockBotGateway() *mockBotGateway {
	return &mockBotGateway{Sent: make(chan sentMessage, 16)}
}

func (b *mockBotGateway) Send(ctx context.Context, chatID int64, text string) error {
	b.Sent <- sentMessage{ChatID: chatID, Text: text}
	return b.SendErr
}

// --- Recipient store ---

type mockStore struct {
	SaveErr error
	// Saved receives every Save call; buffered for fire-and-forget callers.
	Saved       chan model.Recipient
	LoadAllFunc func(ctx context.Context) ([]model.Recipient, error)
}

func newMockStore() *mockStore {
	return &mockStore{Saved: make(chan model.Recipient, 16)}
}

func (s *mockStore) Save(ctx context.Context, r model.Recipient) error {
	s.Saved <- r
	return s.SaveErr
}

func (s *mockStore) LoadAll(ctx context.Context) ([]model.Recipient, error) {
	if s.LoadAllFunc != nil {
		return s.LoadAllFunc(ctx)
	}
	return nil, nil
}
