package badger

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/multiples/internal/common"
)

// Session records are a few hundred bytes; the badger defaults (64MB memtables,
// 1GB value log files) are sized for bulk data.
const (
	sessionMemTableSize     = 8 << 20
	sessionValueLogFileSize = 16 << 20
)

// BadgerDB is the badgerhold store behind persisted sessions
type BadgerDB struct {
	store    *badgerhold.Store
	logger   arbor.ILogger
	config   *common.BadgerConfig
	inMemory bool
}

// NewBadgerDB opens the session database at config.Path, wiping it first when
// ResetOnStartup is set. An empty path keeps the database in memory only.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	options := badgerhold.DefaultOptions
	options.Logger = nil
	options.MemTableSize = sessionMemTableSize
	options.ValueLogFileSize = sessionValueLogFileSize

	inMemory := config.Path == ""
	if inMemory {
		options.InMemory = true
		options.Dir = ""
		options.ValueDir = ""
		logger.Debug().Msg("Opening in-memory session database")
	} else {
		if err := prepareDir(logger, config); err != nil {
			return nil, err
		}
		options.Dir = config.Path
		options.ValueDir = config.Path
		logger.Debug().Str("path", config.Path).Msg("Opening session database")
	}

	store, err := badgerhold.Open(options)
	if err != nil {
		logger.Error().Err(err).Str("path", config.Path).Msg("Failed to open session database")
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	logger.Info().
		Str("path", config.Path).
		Bool("in_memory", inMemory).
		Bool("reset_on_startup", config.ResetOnStartup).
		Msg("Session database ready")

	return &BadgerDB{
		store:    store,
		logger:   logger,
		config:   config,
		inMemory: inMemory,
	}, nil
}

// prepareDir clears sessions left by a previous run when configured, then
// makes sure the directory exists
func prepareDir(logger arbor.ILogger, config *common.BadgerConfig) error {
	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			logger.Debug().Str("path", config.Path).Msg("Clearing sessions from previous run")
			if err := os.RemoveAll(config.Path); err != nil {
				logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to clear session database")
			}
		}
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return fmt.Errorf("failed to create session database directory: %w", err)
	}
	return nil
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// InMemory reports whether sessions are lost when the process exits
func (b *BadgerDB) InMemory() bool {
	return b.inMemory
}

// Close closes the database connection
func (b *BadgerDB) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
