// Package session persists chat sessions and their messages in PostgreSQL.
// Assistant messages carry the pipeline step trace, so the UI can show which
// stages produced an answer.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Role constants define valid message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session represents one conversation (application-level type).
type Session struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message represents a single conversation message. Steps is non-empty only
// for assistant messages and records the pipeline stages that ran.
type Message struct {
	ID             uuid.UUID
	SessionID      uuid.UUID
	Role           string
	Content        string
	Steps          []string
	SequenceNumber int
	CreatedAt      time.Time
}
