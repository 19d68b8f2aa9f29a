package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-notify-relay/internal/infra/logging"
	"telegram-notify-relay/internal/usecase"
)

// Server is the HTTP front door: webhook callers hit /out, everything else is
// informational.
type Server struct {
	notifyUC usecase.NotifyUseCase
	index    []byte
	log      *zerolog.Logger
}

func NewServer(notifyUC usecase.NotifyUseCase, index []byte, logger *zerolog.Logger) *Server {
	return &Server{notifyUC: notifyUC, index: index, log: logger}
}

// Register attaches handlers to the provided mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("/out", s.withTrace(http.HandlerFunc(s.handleOut)))
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())
}

// withTrace gives every request a trace id so the fire-and-forget send logs
// can be tied back to the request that triggered them.
func (s *Server) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.index)
}
