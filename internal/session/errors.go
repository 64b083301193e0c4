package session

import "errors"

// Sentinel errors for session operations; check with errors.Is.
var (
	// ErrSessionNotFound indicates the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

// DefaultMessageLimit bounds message loads when the caller passes no limit.
const DefaultMessageLimit int32 = 200
