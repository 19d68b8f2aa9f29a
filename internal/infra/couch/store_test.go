package couch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"telegram-notify-relay/internal/config"
	"telegram-notify-relay/internal/domain/model"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newTestStore(url string) *Store {
	return NewStore(&config.StoreConfig{
		URL:      url,
		Database: "notifyy-users",
		Username: "dbuser",
		Password: "dbpass",
	}, newTestLogger())
}

func TestStoreLoadAll(t *testing.T) {
	t.Run("parses the list view", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			if r.URL.Path != "/notifyy-users/_design/list/_view/all" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if user, pass, ok := r.BasicAuth(); !ok || user != "dbuser" || pass != "dbpass" {
				t.Error("expected basic auth credentials")
			}
			_, _ = w.Write([]byte(`{
				"total_rows": 2,
				"rows": [
					{"value": {"token": "tok-1", "chatId": 100, "username": "alice"}},
					{"value": {"token": "tok-2", "chatId": 200, "username": "bob"}}
				]
			}`))
		}))
		defer ts.Close()

		recipients, err := newTestStore(ts.URL).LoadAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(recipients) != 2 {
			t.Fatalf("expected 2 recipients, got %d", len(recipients))
		}
		if recipients[0].Token != "tok-1" || recipients[0].ChatID != 100 || recipients[0].Username != "alice" {
			t.Errorf("unexpected first recipient: %+v", recipients[0])
		}
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer ts.Close()

		if _, err := newTestStore(ts.URL).LoadAll(context.Background()); err == nil {
			t.Error("expected an error for status 401")
		}
	})

	t.Run("rows without a token are skipped", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"total_rows": 2, "rows": [{"value": {}}, {"value": {"token": "tok-1", "chatId": 100, "username": "alice"}}]}`))
		}))
		defer ts.Close()

		recipients, err := newTestStore(ts.URL).LoadAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(recipients) != 1 {
			t.Errorf("expected 1 recipient, got %d", len(recipients))
		}
	})
}

func TestStoreSave(t *testing.T) {
	t.Run("posts the recipient document", func(t *testing.T) {
		var got model.Recipient
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/notifyy-users/" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected content type %s", ct)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer ts.Close()

		rcpt := model.Recipient{Token: "tok-1", ChatID: 100, Username: "alice"}
		if err := newTestStore(ts.URL).Save(context.Background(), rcpt); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got != rcpt {
			t.Errorf("stored document %+v, want %+v", got, rcpt)
		}
	})

	t.Run("accepted quorum writes are fine", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
		defer ts.Close()

		if err := newTestStore(ts.URL).Save(context.Background(), model.Recipient{Token: "t", ChatID: 1, Username: "u"}); err != nil {
			t.Errorf("expected no error for 202, got: %v", err)
		}
	})

	t.Run("other statuses are errors", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer ts.Close()

		if err := newTestStore(ts.URL).Save(context.Background(), model.Recipient{Token: "t", ChatID: 1, Username: "u"}); err == nil {
			t.Error("expected an error for status 409")
		}
	})
}
