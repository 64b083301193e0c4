package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/session"
)

// fakeStore is an in-memory SessionStore for handler tests.
type fakeStore struct {
	sessions map[uuid.UUID]*session.Session
	messages map[uuid.UUID][]*session.Message
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[uuid.UUID]*session.Session),
		messages: make(map[uuid.UUID][]*session.Message),
	}
}

func (f *fakeStore) CreateSession(_ context.Context, title string) (*session.Session, error) {
	sess := &session.Session{ID: uuid.New(), Title: title, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeStore) ListSessions(_ context.Context, limit, _ int32) ([]*session.Session, error) {
	out := make([]*session.Session, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s)
	}
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, sessionID uuid.UUID) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeStore) Messages(_ context.Context, sessionID uuid.UUID, _ int32) ([]*session.Message, error) {
	if _, ok := f.sessions[sessionID]; !ok {
		return nil, session.ErrSessionNotFound
	}
	return f.messages[sessionID], nil
}

func newSessionMux(store SessionStore) *http.ServeMux {
	mux := http.NewServeMux()
	NewSessionHandler(store, log.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestCreateSessionEndpoint(t *testing.T) {
	mux := newSessionMux(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"title":"vsa questions"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var sess session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, "vsa questions", sess.Title)
	assert.NotEqual(t, uuid.Nil, sess.ID)
}

func TestCreateSessionEndpointRejectsBadBody(t *testing.T) {
	mux := newSessionMux(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSessionEndpointRejectsLongTitle(t *testing.T) {
	mux := newSessionMux(newFakeStore())

	body := `{"title":"` + strings.Repeat("x", MaxTitleLength+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSessionsEndpoint(t *testing.T) {
	store := newFakeStore()
	for range 3 {
		_, err := store.CreateSession(context.Background(), "t")
		require.NoError(t, err)
	}
	mux := newSessionMux(store)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions?limit=2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Total int `json:"total"`
		Limit int `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Limit)
}

func TestSessionMessagesEndpoint(t *testing.T) {
	store := newFakeStore()
	sess, err := store.CreateSession(context.Background(), "t")
	require.NoError(t, err)
	store.messages[sess.ID] = []*session.Message{
		{SessionID: sess.ID, Role: session.RoleUser, Content: "q", SequenceNumber: 1},
		{SessionID: sess.ID, Role: session.RoleAssistant, Content: "a",
			Steps: []string{"retrieve_documents", "grade_document_retrieval", "generate_answer"}, SequenceNumber: 2},
	}
	mux := newSessionMux(store)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID.String()+"/messages", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []session.Message `json:"messages"`
		Total    int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, []string{"retrieve_documents", "grade_document_retrieval", "generate_answer"},
		resp.Messages[1].Steps)
}

func TestSessionMessagesEndpointNotFound(t *testing.T) {
	mux := newSessionMux(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+uuid.NewString()+"/messages", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionMessagesEndpointBadID(t *testing.T) {
	mux := newSessionMux(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/not-a-uuid/messages", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	store := newFakeStore()
	sess, err := store.CreateSession(context.Background(), "t")
	require.NoError(t, err)
	mux := newSessionMux(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID.String(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.sessions)
}

func TestParseIntParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=50&bad=x&big=9999", nil)

	assert.Equal(t, 50, parseIntParam(req, "limit", 100, 1, 1000))
	assert.Equal(t, 100, parseIntParam(req, "missing", 100, 1, 1000))
	assert.Equal(t, 100, parseIntParam(req, "bad", 100, 1, 1000))
	assert.Equal(t, 1000, parseIntParam(req, "big", 100, 1, 1000))
}
