package session

import (
	"context"
	"time"
)

// Session is the server-held binding between a session id and an account.
// It stores only the account reference, never credentials.
type Session struct {
	SessionID string
	AccountID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store persists session bindings and the transient handshake record.
// Every method must be atomic with respect to the session id it touches.
type Store interface {
	// Get returns nil, nil when the session has no binding.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Bind writes s and removes previousID's binding in one step.
	Bind(ctx context.Context, s Session, previousID string) error

	// Unbind is idempotent.
	Unbind(ctx context.Context, sessionID string) error

	// ResetHandshake replaces the handshake record with fields.
	ResetHandshake(ctx context.Context, sessionID string, fields map[string]string, ttl time.Duration) error

	// SetHandshakeFields merges fields into the handshake record.
	SetHandshakeFields(ctx context.Context, sessionID string, fields map[string]string, ttl time.Duration) error

	// TakeHandshakeFields reads and deletes the named fields in one step.
	// Missing fields are absent from the result.
	TakeHandshakeFields(ctx context.Context, sessionID string, fields ...string) (map[string]string, error)

	ClearHandshake(ctx context.Context, sessionID string) error
}
