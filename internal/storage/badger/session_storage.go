package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/models"
)

// SessionStorage implements interfaces.SessionStore on Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

var _ interfaces.SessionStore = (*SessionStorage)(nil)

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) *SessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SessionStorage) Get(_ context.Context, sessionID string) (*models.SessionState, error) {
	var state models.SessionState
	err := s.db.Store().Get(sessionID, &state)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &state, nil
}

// Save writes state inside one transaction so the revision check and the
// write cannot interleave with another Save
func (s *SessionStorage) Save(_ context.Context, state *models.SessionState, baseRevision int64) error {
	store := s.db.Store()
	err := store.Badger().Update(func(tx *badger.Txn) error {
		var current models.SessionState
		err := store.TxGet(tx, state.SessionID, &current)
		switch {
		case errors.Is(err, badgerhold.ErrNotFound):
			if baseRevision != 0 {
				return interfaces.ErrStaleSession
			}
		case err != nil:
			return err
		case current.Revision != baseRevision:
			return interfaces.ErrStaleSession
		}
		return store.TxUpsert(tx, state.SessionID, state)
	})
	if errors.Is(err, interfaces.ErrStaleSession) {
		s.logger.Debug().
			Str("session_id", state.SessionID).
			Int64("base_revision", baseRevision).
			Msg("Rejected stale session write")
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, sessionID string) error {
	err := s.db.Store().Delete(sessionID, &models.SessionState{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
