package session

import (
	"context"
	"sync"

	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/models"
)

// MemoryStore keeps sessions in process memory; they are lost on restart
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.SessionState
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.SessionState)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*models.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}
	state.Companies = append([]models.Company(nil), state.Companies...)
	return &state, nil
}

func (s *MemoryStore) Save(_ context.Context, state *models.SessionState, baseRevision int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.sessions[state.SessionID]; ok {
		if current.Revision != baseRevision {
			return interfaces.ErrStaleSession
		}
	} else if baseRevision != 0 {
		return interfaces.ErrStaleSession
	}

	stored := *state
	stored.Companies = append([]models.Company(nil), state.Companies...)
	s.sessions[state.SessionID] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// NoopStore stores nothing; every session starts empty
type NoopStore struct{}

// NewNoopStore creates a store that discards writes
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (NoopStore) Get(context.Context, string) (*models.SessionState, error) {
	return nil, interfaces.ErrSessionNotFound
}

func (NoopStore) Save(context.Context, *models.SessionState, int64) error {
	return nil
}

func (NoopStore) Delete(context.Context, string) error {
	return nil
}
