package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// API routes - Directory
	mux.HandleFunc("/api/regions", s.app.DirectoryHandler.RegionsHandler)
	mux.HandleFunc("/api/regions/", s.app.DirectoryHandler.RegionCompaniesHandler) // GET /{name}/companies
	mux.HandleFunc("/api/countries", s.app.DirectoryHandler.CountriesHandler)
	mux.HandleFunc("/api/categories", s.app.DirectoryHandler.CategoriesHandler)
	mux.HandleFunc("/api/companies", s.app.DirectoryHandler.CompaniesHandler)

	// API routes - Company details and reports
	mux.HandleFunc("/api/companies/", s.handleCompanyRoutes) // GET /{ticker}, /{ticker}/report.{md,html,pdf}

	// API routes - Session
	mux.HandleFunc("/api/session", s.app.SessionHandler.CreateSessionHandler) // POST
	mux.HandleFunc("/api/session/", s.handleSessionRoutes)                    // GET/PUT/DELETE /{id}

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)
	mux.HandleFunc("/", s.handleRoot)

	return mux
}

// handleCompanyRoutes routes /api/companies/{ticker} and its report sub-paths
func (s *Server) handleCompanyRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/companies/")
	if strings.Contains(strings.TrimSuffix(rest, "/"), "/") {
		s.app.CompanyHandler.ReportHandler(w, r)
		return
	}
	s.app.CompanyHandler.DetailsHandler(w, r)
}

// handleSessionRoutes routes GET/PUT/DELETE requests for /api/session/{id}
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	RouteResourceItem(w, r,
		s.app.SessionHandler.GetSessionHandler,
		s.app.SessionHandler.UpdateSessionHandler,
		s.app.SessionHandler.DeleteSessionHandler,
	)
}

// handleRoot answers the bare root with service information; anything else is a 404
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}
	s.app.APIHandler.VersionHandler(w, r)
}
