package directory

import (
	"context"
	"errors"
	"testing"

	"telegram-notify-relay/internal/domain/model"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fakeStore struct {
	recipients []model.Recipient
	loadErr    error
}

func (s *fakeStore) LoadAll(ctx context.Context) ([]model.Recipient, error) {
	return s.recipients, s.loadErr
}

func (s *fakeStore) Save(ctx context.Context, r model.Recipient) error { return nil }

func TestDirectory(t *testing.T) {
	alice := model.Recipient{Token: "tok-1", ChatID: 100, Username: "alice"}
	bob := model.Recipient{Token: "tok-2", ChatID: 200, Username: "bob"}

	t.Run("put and resolve", func(t *testing.T) {
		d := New(newTestLogger())
		d.Put(alice)

		got, ok := d.Resolve("tok-1")
		if !ok || got != alice {
			t.Errorf("Resolve(tok-1) = %+v, %v", got, ok)
		}
		if _, ok := d.Resolve("missing"); ok {
			t.Error("expected miss for unknown token")
		}
		if d.Len() != 1 {
			t.Errorf("expected length 1, got %d", d.Len())
		}
	})

	t.Run("find by username", func(t *testing.T) {
		d := New(newTestLogger())
		d.Put(alice)
		d.Put(bob)

		got, ok := d.FindByUsername("bob")
		if !ok || got.Token != "tok-2" {
			t.Errorf("FindByUsername(bob) = %+v, %v", got, ok)
		}
		if _, ok := d.FindByUsername("carol"); ok {
			t.Error("expected miss for unknown username")
		}
	})

	t.Run("load from store", func(t *testing.T) {
		d := New(newTestLogger())
		d.LoadFrom(context.Background(), &fakeStore{recipients: []model.Recipient{alice, bob}})

		if d.Len() != 2 {
			t.Fatalf("expected 2 recipients, got %d", d.Len())
		}
		if got, ok := d.Resolve("tok-2"); !ok || got.Username != "bob" {
			t.Errorf("Resolve(tok-2) = %+v, %v", got, ok)
		}
	})

	t.Run("load failure leaves an empty directory", func(t *testing.T) {
		d := New(newTestLogger())
		d.LoadFrom(context.Background(), &fakeStore{loadErr: errors.New("store down")})

		if d.Len() != 0 {
			t.Errorf("expected empty directory after load failure, got %d", d.Len())
		}
	})
}
