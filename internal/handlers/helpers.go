package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/finapi"
	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/services/companies"
	"github.com/ternarybob/multiples/internal/services/session"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteRetryableError writes an error response carrying the path the client
// can request again.
func WriteRetryableError(w http.ResponseWriter, statusCode int, message, retry string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
		"retry":  retry,
	})
}

// writeServiceError maps service and client errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger arbor.ILogger, err error) {
	var transportErr *finapi.TransportError
	var parseErr *finapi.ParseError

	retry := r.URL.RequestURI()

	switch {
	case errors.As(err, &parseErr):
		WriteRetryableError(w, http.StatusBadGateway, "Invalid data format received from the financial data service", retry)
	case errors.As(err, &transportErr):
		WriteRetryableError(w, http.StatusBadGateway, "Failed to load data from the financial data service", retry)
	case errors.Is(err, common.ErrInvalidTicker),
		errors.Is(err, companies.ErrCountryRequired),
		errors.Is(err, session.ErrInvalidSessionID):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, interfaces.ErrStaleSession):
		WriteError(w, http.StatusConflict, "Session was updated by a newer request")
	case errors.Is(err, interfaces.ErrSessionNotFound),
		errors.Is(err, companies.ErrRegionNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// extractIDFromPath extracts the ID from a URL path
// Example: "/api/session/sess_123" with prefix "/api/session/" returns "sess_123"
func extractIDFromPath(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	id := strings.TrimPrefix(path, prefix)
	id = strings.TrimSuffix(id, "/")
	return id
}
