package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/multiples/internal/models"
	"github.com/ternarybob/multiples/internal/services/session"
)

const sessionPrefix = "/api/session/"

// SessionHandler exposes the browsing session state
type SessionHandler struct {
	sessionService *session.Service
	logger         arbor.ILogger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService *session.Service, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// updateSessionRequest is the PUT body: the desired selection plus the
// revision the client last saw
type updateSessionRequest struct {
	models.SessionState
	BaseRevision int64 `json:"baseRevision"`
}

type updateSessionResponse struct {
	State   models.SessionState `json:"state"`
	Changed bool                `json:"changed"`
}

// CreateSessionHandler handles POST /api/session
func (h *SessionHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	state := h.sessionService.Create(r.Context())
	WriteJSON(w, http.StatusCreated, state)
}

// GetSessionHandler handles GET /api/session/{id}
func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := extractIDFromPath(r.URL.Path, sessionPrefix)
	state, err := h.sessionService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}

// UpdateSessionHandler handles PUT /api/session/{id}
func (h *SessionHandler) UpdateSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	id := extractIDFromPath(r.URL.Path, sessionPrefix)

	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to decode session update")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, changed, err := h.sessionService.Update(r.Context(), id, req.SessionState, req.BaseRevision)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, updateSessionResponse{State: state, Changed: changed})
}

// DeleteSessionHandler handles DELETE /api/session/{id}
func (h *SessionHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	id := extractIDFromPath(r.URL.Path, sessionPrefix)
	if err := h.sessionService.Clear(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
