package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/session"
)

// Session endpoint limits.
const (
	MaxTitleLength   = 200
	DefaultListLimit = 100
	MaxListLimit     = 1000
	MaxListOffset    = 100000
	MaxMessagesLimit = 1000
)

// SessionStore is the subset of session.Store the handlers use. The
// interface lives with the consumer so tests can substitute a fake.
type SessionStore interface {
	CreateSession(ctx context.Context, title string) (*session.Session, error)
	ListSessions(ctx context.Context, limit, offset int32) ([]*session.Session, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	Messages(ctx context.Context, sessionID uuid.UUID, limit int32) ([]*session.Message, error)
}

// SessionHandler handles session-related HTTP endpoints.
type SessionHandler struct {
	store  SessionStore
	logger log.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(store SessionStore, logger log.Logger) *SessionHandler {
	return &SessionHandler{store: store, logger: logger}
}

// RegisterRoutes registers session routes on the given mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sessions", h.list)
	mux.HandleFunc("POST /api/sessions", h.create)
	mux.HandleFunc("GET /api/sessions/{id}/messages", h.messages)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.delete)
}

// list returns sessions with pagination, most recently active first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", DefaultListLimit, 1, MaxListLimit)
	offset := parseIntParam(r, "offset", 0, 0, MaxListOffset)

	sessions, err := h.store.ListSessions(r.Context(), int32(limit), int32(offset))
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal", "failed to list sessions")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"sessions": sessions,
		"total":    len(sessions),
		"limit":    limit,
		"offset":   offset,
	})
}

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// create creates a new session.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if len(req.Title) > MaxTitleLength {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "title too long")
		return
	}

	sess, err := h.store.CreateSession(r.Context(), req.Title)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, sess)
}

// messages returns a session's history including assistant step traces.
func (h *SessionHandler) messages(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}
	limit := parseIntParam(r, "limit", int(session.DefaultMessageLimit), 1, MaxMessagesLimit)

	msgs, err := h.store.Messages(r.Context(), sessionID, int32(limit))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "not_found", "session not found")
			return
		}
		h.logger.Error("failed to load messages", "session_id", sessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal", "failed to load messages")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"messages": msgs,
		"total":    len(msgs),
	})
}

// delete removes a session and its messages.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.pathSessionID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteSession(r.Context(), sessionID); err != nil {
		h.logger.Error("failed to delete session", "session_id", sessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "internal", "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) pathSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// parseIntParam parses an integer query parameter with bounds clamping.
func parseIntParam(r *http.Request, name string, defaultVal, minVal, maxVal int) int {
	str := r.URL.Query().Get(name)
	if str == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultVal
	}
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
