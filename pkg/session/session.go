// Package session persists diagram sessions: the schema text being edited,
// the chosen direction, and where each table currently sits.
//
// A session outlives a single request so tables a user dragged stay where
// they were put. Implementations differ only in where they keep the data:
//   - [MemoryStore]: in-process, for tests and a single server instance
//   - [RedisStore]: Redis with native expiry, shared by server instances
//   - [FileStore]: JSON files, for the CLI
//
// # Usage
//
//	sess := session.New(text, layout.LR, res.Positions(), session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/schemaflow/pkg/layout"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 24 * time.Hour

// Session is one diagram being edited.
type Session struct {
	ID        string            `json:"id"`
	Text      string            `json:"dbml"`
	Direction layout.Direction  `json:"direction"`
	Positions *layout.Positions `json:"positions"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at"`

	// Config is the spacing the session was created with. Nil means the
	// server defaults.
	Config *layout.Config `json:"config,omitempty"`
}

// New creates a session with a fresh random ID.
func New(text string, dir layout.Direction, pos *layout.Positions, ttl time.Duration) *Session {
	if pos == nil {
		pos = layout.NewPositions()
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Text:      text,
		Direction: dir,
		Positions: pos,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch marks the session as modified and extends its life by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.UpdatedAt = time.Now()
	s.ExpiresAt = s.UpdatedAt.Add(ttl)
}

// TTL returns the time left before expiry, never negative.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}

// ValidID reports whether id has the shape of a session ID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous version.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op where the backend
	// expires entries itself).
	Cleanup(ctx context.Context) error

	Close() error
}
