package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/models"
)

// ErrInvalidSessionID is returned for ids not issued by NewSessionID
var ErrInvalidSessionID = errors.New("invalid session id")

// Service coordinates session state updates against a SessionStore
type Service struct {
	store    interfaces.SessionStore
	logger   arbor.ILogger
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a session service; a nil store stores nothing
func NewService(store interfaces.SessionStore, logger arbor.ILogger) *Service {
	if store == nil {
		store = NewNoopStore()
	}
	return &Service{
		store:    store,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create issues a new session id. Nothing is stored until a country is selected.
func (s *Service) Create(_ context.Context) models.SessionState {
	return models.SessionState{SessionID: common.NewSessionID()}
}

// Get returns the stored state of a session
func (s *Service) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if !common.IsSessionID(sessionID) {
		return nil, ErrInvalidSessionID
	}
	return s.store.Get(ctx, sessionID)
}

// Update applies next to the stored state. baseRevision is the revision the
// caller last saw; a mismatch means a newer update already landed and
// ErrStaleSession is returned. States without a country are ignored and
// return the current state unchanged.
func (s *Service) Update(ctx context.Context, sessionID string, next models.SessionState, baseRevision int64) (models.SessionState, bool, error) {
	if !common.IsSessionID(sessionID) {
		return models.SessionState{}, false, ErrInvalidSessionID
	}

	prev, err := s.store.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, interfaces.ErrSessionNotFound) {
		return models.SessionState{}, false, fmt.Errorf("failed to load session: %w", err)
	}

	current := int64(0)
	if prev != nil {
		current = prev.Revision
	}
	if baseRevision != current {
		return models.SessionState{}, false, interfaces.ErrStaleSession
	}

	if err := s.validate.Struct(next); err != nil {
		s.logger.Debug().Str("session_id", sessionID).Msg("Ignoring session state without a selected country")
		if prev == nil {
			return models.SessionState{SessionID: sessionID}, false, nil
		}
		return *prev, false, nil
	}

	next.SessionID = sessionID
	result, changed := Reduce(prev, next, s.now())
	if !changed {
		return result, false, nil
	}

	if err := s.store.Save(ctx, &result, baseRevision); err != nil {
		if errors.Is(err, interfaces.ErrStaleSession) {
			return models.SessionState{}, false, err
		}
		return models.SessionState{}, false, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("country", result.SelectedCountry).
		Int64("revision", result.Revision).
		Msg("Session state updated")

	return result, true, nil
}

// Clear removes a session's stored state
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if !common.IsSessionID(sessionID) {
		return ErrInvalidSessionID
	}
	return s.store.Delete(ctx, sessionID)
}
