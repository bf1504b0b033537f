package storage

import (
	"fmt"
	"io"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/services/session"
	"github.com/ternarybob/multiples/internal/storage/badger"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewSessionStore creates the session store selected by config.Storage.Type.
// The returned closer releases the backing database.
func NewSessionStore(logger arbor.ILogger, config *common.Config) (interfaces.SessionStore, io.Closer, error) {
	switch config.Storage.Type {
	case "", "memory":
		return session.NewMemoryStore(), nopCloser{}, nil
	case "none":
		return session.NewNoopStore(), nopCloser{}, nil
	case "badger":
		db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
		if err != nil {
			return nil, nil, err
		}
		return badger.NewSessionStorage(db, logger), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s (memory, badger or none)", config.Storage.Type)
	}
}
