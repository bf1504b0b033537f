package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/multiples/internal/common"
)

// APIHandler serves the service-level endpoints: health, version and the JSON 404
type APIHandler struct {
	config *common.Config
	logger arbor.ILogger
}

func NewAPIHandler(config *common.Config, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		config: config,
		logger: logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"service":    "multiples",
		"version":    common.GetVersion(),
		"build":      common.Build,
		"git_commit": common.GitCommit,
	})
}

// HealthHandler reports liveness with the session backend and directory cache
// window in use. The upstream API is not called; its failures surface per
// request as 502.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	cache := "disabled"
	if ttl, err := h.config.APICacheTTL(); err == nil && ttl > 0 {
		cache = ttl.String()
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":          "ok",
		"environment":     h.config.Environment,
		"sessions":        h.config.Storage.Type,
		"directory_cache": cache,
	})
}

// NotFoundHandler answers unknown /api paths in the standard error shape
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("path", r.URL.Path).Msg("No route for request")
	WriteJSON(w, http.StatusNotFound, map[string]string{
		"status": "error",
		"error":  "No such endpoint",
		"path":   r.URL.Path,
	})
}
