package app

import (
	"fmt"
	"io"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/finapi"
	"github.com/ternarybob/multiples/internal/handlers"
	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/services/analytics"
	"github.com/ternarybob/multiples/internal/services/cache"
	"github.com/ternarybob/multiples/internal/services/companies"
	"github.com/ternarybob/multiples/internal/services/pdf"
	"github.com/ternarybob/multiples/internal/services/session"
	"github.com/ternarybob/multiples/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	SessionStore interfaces.SessionStore
	storeCloser  io.Closer

	// Remote financial data
	FinancialClient interfaces.FinancialDataClient
	AnalyticsSink   interfaces.AnalyticsSink

	// Services
	CompanyService *companies.Service
	SessionService *session.Service
	PDFService     interfaces.PDFService

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	DirectoryHandler *handlers.DirectoryHandler
	CompanyHandler   *handlers.CompanyHandler
	SessionHandler   *handlers.SessionHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("api_base_url", cfg.API.BaseURL).
		Str("storage", cfg.Storage.Type).
		Str("analytics", cfg.Analytics.Sink).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase opens the session store selected in config
func (a *App) initDatabase() error {
	store, closer, err := storage.NewSessionStore(a.Logger, a.Config)
	if err != nil {
		return err
	}
	a.SessionStore = store
	a.storeCloser = closer

	a.Logger.Debug().
		Str("storage", a.Config.Storage.Type).
		Msg("Session store initialized")
	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	timeout, err := a.Config.APITimeout()
	if err != nil {
		return err
	}

	cacheTTL, err := a.Config.APICacheTTL()
	if err != nil {
		return err
	}

	var client interfaces.FinancialDataClient = finapi.NewClient(
		finapi.WithBaseURL(a.Config.API.BaseURL),
		finapi.WithTimeout(timeout),
		finapi.WithRateLimit(a.Config.API.RateLimit),
		finapi.WithLogger(a.Logger),
	)
	if cacheTTL > 0 {
		client = cache.NewService(client, cacheTTL, a.Logger)
	}
	a.FinancialClient = client

	a.AnalyticsSink = analytics.NewSink(a.Config.Analytics.Sink, a.Logger)
	a.CompanyService = companies.NewService(a.FinancialClient, a.AnalyticsSink, a.Logger)
	a.SessionService = session.NewService(a.SessionStore, a.Logger)
	a.PDFService = pdf.NewService(a.Logger)

	a.Logger.Debug().
		Dur("api_timeout", timeout).
		Dur("directory_cache", cacheTTL).
		Float64("api_rate_limit", a.Config.API.RateLimit).
		Msg("Services initialized")
	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Config, a.Logger)
	a.DirectoryHandler = handlers.NewDirectoryHandler(a.CompanyService, a.Logger)
	a.CompanyHandler = handlers.NewCompanyHandler(a.CompanyService, a.PDFService, a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionService, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.storeCloser != nil {
		if err := a.storeCloser.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.storeCloser = nil
		a.Logger.Info().Msg("Storage closed")
	}
	return nil
}
