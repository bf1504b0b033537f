package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/services/session"
	"github.com/ternarybob/multiples/internal/storage/badger"
)

func TestNewSessionStore(t *testing.T) {
	logger := arbor.NewLogger()

	tests := []struct {
		storageType string
		expected    interface{}
	}{
		{"memory", &session.MemoryStore{}},
		{"none", &session.NoopStore{}},
		{"badger", &badger.SessionStorage{}},
	}

	for _, tt := range tests {
		t.Run(tt.storageType, func(t *testing.T) {
			config := common.NewDefaultConfig()
			config.Storage.Type = tt.storageType
			config.Storage.Badger.Path = filepath.Join(t.TempDir(), "db")

			store, closer, err := NewSessionStore(logger, config)
			require.NoError(t, err)
			defer closer.Close()
			assert.IsType(t, tt.expected, store)
		})
	}

	config := common.NewDefaultConfig()
	config.Storage.Type = "sqlite"
	_, _, err := NewSessionStore(logger, config)
	assert.Error(t, err)
}
