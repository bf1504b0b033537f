package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/multiples/internal/app"
)

const (
	readTimeout = 15 * time.Second
	idleTimeout = 60 * time.Second

	// headroom on top of the upstream API timeout for deriving and rendering a PDF report
	renderHeadroom = 30 * time.Second
)

// Server serves the company directory, details, reports and sessions over HTTP
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	s := &Server{
		app: application,
	}

	s.router = s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout(application),
		IdleTimeout:  idleTimeout,
	}

	return s
}

// writeTimeout covers one upstream financials call plus report rendering.
// Without an API timeout the server imposes none either.
func writeTimeout(application *app.App) time.Duration {
	upstream, err := application.Config.APITimeout()
	if err != nil || upstream <= 0 {
		return 0
	}
	return upstream + renderHeadroom
}

// Addr is the host:port the server listens on
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.app.Config.Server.Host, s.app.Config.Server.Port)
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	base := "http://" + s.Addr()

	s.app.Logger.Info().
		Str("address", s.Addr()).
		Str("upstream", s.app.Config.API.BaseURL).
		Dur("write_timeout", s.server.WriteTimeout).
		Msg("Multiples server starting")

	s.app.Logger.Info().
		Str("directory", base+"/api/countries").
		Str("company", base+"/api/companies/{ticker}").
		Str("report", base+"/api/companies/{ticker}/report.pdf").
		Msg("Company endpoints available")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests, including report renders, until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Draining in-flight company requests")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("Multiples server stopped")
	return nil
}
