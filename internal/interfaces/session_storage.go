package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/multiples/internal/models"
)

var (
	// ErrSessionNotFound is returned when no state is stored for a session id
	ErrSessionNotFound = errors.New("session not found")

	// ErrStaleSession is returned when a write is based on an older revision than the stored one
	ErrStaleSession = errors.New("session revision is stale")
)

// SessionStore persists SessionState values between requests
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)

	// Save stores state if the stored revision equals baseRevision (0 for a new session),
	// otherwise it returns ErrStaleSession
	Save(ctx context.Context, state *models.SessionState, baseRevision int64) error

	Delete(ctx context.Context, sessionID string) error
}
