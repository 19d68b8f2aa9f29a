package web

import (
	"encoding/json"
	"net/http"

	"telegram-notify-relay/internal/infra/logging"
	"telegram-notify-relay/internal/infra/metrics"
	"telegram-notify-relay/internal/usecase"
)

// outRequest is the normalized /out parameter set, after merging the query
// string and an optional JSON body of the same shape.
type outRequest struct {
	Title   string
	Message string
	Code    string
	URL     string
	Users   []string
}

// outBody mirrors outRequest on the wire. The legacy `user` field may be a
// plain string or an array, so it decodes in two steps.
type outBody struct {
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	URL     string          `json:"url"`
	Users   []string        `json:"users"`
	User    json.RawMessage `json:"user"`
}

func (s *Server) handleOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	logger := logging.With(r.Context(), s.log)

	req := parseOutRequest(r)
	if req.Title == "" && req.Message == "" {
		metrics.IncRequest("rejected")
		http.Error(w, "title or message is required", http.StatusBadRequest)
		return
	}
	if len(req.Users) == 0 {
		metrics.IncRequest("rejected")
		http.Error(w, "user is required", http.StatusBadRequest)
		return
	}
	// Code blocks are honored on POST only, as they always have been.
	if r.Method != http.MethodPost {
		req.Code = ""
	}

	text := usecase.ComposeMessage(usecase.MessagePayload{
		Title:   req.Title,
		Message: req.Message,
		Code:    req.Code,
		URL:     req.URL,
	})

	dispatched := s.notifyUC.Notify(r.Context(), req.Users, text)
	if dispatched == 0 {
		metrics.IncRequest("rejected")
		logger.Debug().Int("recipients", len(req.Users)).Msg("no recipient accepted the notification")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	metrics.IncRequest("dispatched")
	logger.Info().Int("dispatched", dispatched).Int("recipients", len(req.Users)).Msg("notification dispatched")
	w.WriteHeader(http.StatusNoContent)
}

// parseOutRequest prefers query-string values and falls back to the JSON body
// per field. Recipients come from `users` or the legacy singular `user`,
// which normalizes to a one-element list when it is a plain string.
func parseOutRequest(r *http.Request) outRequest {
	q := r.URL.Query()
	req := outRequest{
		Title:   q.Get("title"),
		Message: q.Get("message"),
		Code:    q.Get("code"),
		URL:     q.Get("url"),
		Users:   queryUsers(r),
	}

	if r.Body == nil {
		return req
	}
	var body outBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return req
	}
	if req.Title == "" {
		req.Title = body.Title
	}
	if req.Message == "" {
		req.Message = body.Message
	}
	if req.Code == "" {
		req.Code = body.Code
	}
	if req.URL == "" {
		req.URL = body.URL
	}
	if len(req.Users) == 0 {
		req.Users = bodyUsers(body)
	}
	return req
}

func queryUsers(r *http.Request) []string {
	q := r.URL.Query()
	if users, ok := q["users"]; ok && len(users) > 0 {
		return users
	}
	return q["user"]
}

func bodyUsers(body outBody) []string {
	if len(body.Users) > 0 {
		return body.Users
	}
	if len(body.User) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(body.User, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(body.User, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}
