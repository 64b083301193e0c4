package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seaward0/seaward/internal/log"
	"github.com/seaward0/seaward/internal/sqlc"
)

// Querier defines the database operations Store needs. The interface lives
// with the consumer so tests can substitute a mock; sqlc.Queries satisfies it.
type Querier interface {
	CreateSession(ctx context.Context, title *string) (sqlc.Session, error)
	GetSession(ctx context.Context, id pgtype.UUID) (sqlc.Session, error)
	ListSessions(ctx context.Context, arg sqlc.ListSessionsParams) ([]sqlc.Session, error)
	DeleteSession(ctx context.Context, id pgtype.UUID) error
	TouchSession(ctx context.Context, id pgtype.UUID) error
	LockSession(ctx context.Context, id pgtype.UUID) (pgtype.UUID, error)

	AddMessage(ctx context.Context, arg sqlc.AddMessageParams) error
	GetMessages(ctx context.Context, arg sqlc.GetMessagesParams) ([]sqlc.SessionMessage, error)
	GetMaxSequenceNumber(ctx context.Context, sessionID pgtype.UUID) (int32, error)
}

// Store manages session persistence. Safe for concurrent use.
type Store struct {
	querier Querier
	pool    *pgxpool.Pool // enables transactions; nil in mock-backed tests
	logger  log.Logger
}

// New creates a Store. pool may be nil when testing with a mock querier; in
// that mode RecordExchange runs without a transaction.
func New(querier Querier, pool *pgxpool.Pool, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{querier: querier, pool: pool, logger: logger}
}

// CreateSession creates a new conversation session.
func (s *Store) CreateSession(ctx context.Context, title string) (*Session, error) {
	var titlePtr *string
	if title != "" {
		titlePtr = &title
	}

	row, err := s.querier.CreateSession(ctx, titlePtr)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	sess := toSession(row)
	s.logger.Debug("created session", "id", sess.ID, "title", sess.Title)
	return sess, nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	row, err := s.querier.GetSession(ctx, uuidToPgUUID(sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("getting session %s: %w", sessionID, err)
	}
	return toSession(row), nil
}

// ListSessions lists sessions ordered by most recent activity.
func (s *Store) ListSessions(ctx context.Context, limit, offset int32) ([]*Session, error) {
	rows, err := s.querier.ListSessions(ctx, sqlc.ListSessionsParams{
		ResultLimit:  limit,
		ResultOffset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	sessions := make([]*Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, toSession(row))
	}
	return sessions, nil
}

// DeleteSession deletes a session and all its messages (CASCADE).
func (s *Store) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.querier.DeleteSession(ctx, uuidToPgUUID(sessionID)); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	s.logger.Debug("deleted session", "id", sessionID)
	return nil
}

// Messages loads a session's messages in sequence order. limit <= 0 applies
// DefaultMessageLimit.
func (s *Store) Messages(ctx context.Context, sessionID uuid.UUID, limit int32) ([]*Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	rows, err := s.querier.GetMessages(ctx, sqlc.GetMessagesParams{
		SessionID:   uuidToPgUUID(sessionID),
		ResultLimit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("loading messages for session %s: %w", sessionID, err)
	}

	messages := make([]*Message, 0, len(rows))
	for _, row := range rows {
		msg, err := toMessage(row)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// RecordExchange persists one question/answer pair: a user message followed
// by an assistant message carrying the step trace. Both inserts and the
// session timestamp update are one transaction; the session row is locked so
// concurrent exchanges cannot collide on sequence numbers.
func (s *Store) RecordExchange(ctx context.Context, sessionID uuid.UUID, question, answer string, steps []string) error {
	if s.pool == nil {
		return s.recordExchange(ctx, s.querier, sessionID, question, answer, steps)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			s.logger.Debug("transaction rollback failed", "error", err)
		}
	}()

	txQuerier := sqlc.New(tx)
	if _, err := txQuerier.LockSession(ctx, uuidToPgUUID(sessionID)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return fmt.Errorf("locking session: %w", err)
	}

	if err := s.recordExchange(ctx, txQuerier, sessionID, question, answer, steps); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) recordExchange(ctx context.Context, q Querier, sessionID uuid.UUID, question, answer string, steps []string) error {
	pgID := uuidToPgUUID(sessionID)

	maxSeq, err := q.GetMaxSequenceNumber(ctx, pgID)
	if err != nil {
		return fmt.Errorf("getting max sequence number: %w", err)
	}

	if err := q.AddMessage(ctx, sqlc.AddMessageParams{
		SessionID:      pgID,
		Role:           RoleUser,
		Content:        question,
		SequenceNumber: maxSeq + 1,
	}); err != nil {
		return fmt.Errorf("inserting user message: %w", err)
	}

	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("marshaling steps: %w", err)
	}
	if err := q.AddMessage(ctx, sqlc.AddMessageParams{
		SessionID:      pgID,
		Role:           RoleAssistant,
		Content:        answer,
		Steps:          stepsJSON,
		SequenceNumber: maxSeq + 2,
	}); err != nil {
		return fmt.Errorf("inserting assistant message: %w", err)
	}

	if err := q.TouchSession(ctx, pgID); err != nil {
		return fmt.Errorf("updating session timestamp: %w", err)
	}

	s.logger.Debug("recorded exchange",
		"session_id", sessionID, "steps", len(steps))
	return nil
}

func toSession(row sqlc.Session) *Session {
	sess := &Session{
		ID:        pgUUIDToUUID(row.ID),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
	if row.Title != nil {
		sess.Title = *row.Title
	}
	return sess
}

func toMessage(row sqlc.SessionMessage) (*Message, error) {
	msg := &Message{
		ID:             pgUUIDToUUID(row.ID),
		SessionID:      pgUUIDToUUID(row.SessionID),
		Role:           row.Role,
		Content:        row.Content,
		SequenceNumber: int(row.SequenceNumber),
		CreatedAt:      row.CreatedAt.Time,
	}
	if len(row.Steps) > 0 {
		if err := json.Unmarshal(row.Steps, &msg.Steps); err != nil {
			return nil, fmt.Errorf("unmarshaling steps for message %s: %w", msg.ID, err)
		}
	}
	return msg, nil
}

func uuidToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDToUUID(id pgtype.UUID) uuid.UUID {
	return uuid.UUID(id.Bytes)
}
