// Package cache keeps recent company-directory lookups so browsing does not
// hit the financial-data API on every request.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/models"
)

type entry struct {
	value     interface{}
	fetchedAt time.Time
}

// Service wraps a FinancialDataClient and serves directory lookups (regions,
// countries, categories, company listings) from memory while they are fresh.
// Financial series always go to the API. Failed lookups are never cached.
type Service struct {
	client  interfaces.FinancialDataClient
	window  time.Duration
	logger  arbor.ILogger
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]entry
}

var _ interfaces.FinancialDataClient = (*Service)(nil)

// NewService creates a directory cache with a rolling freshness window
func NewService(client interfaces.FinancialDataClient, window time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		client:  client,
		window:  window,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// isFresh reports whether an entry was fetched within the rolling window
func (s *Service) isFresh(e entry) bool {
	return s.now().Sub(e.fetchedAt) < s.window
}

func (s *Service) lookup(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !s.isFresh(e) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Service) store(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, fetchedAt: s.now()}
}

// Invalidate drops every cached lookup
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

func cached[T any](s *Service, key string, fetch func() ([]T, error)) ([]T, error) {
	if v, ok := s.lookup(key); ok {
		s.logger.Trace().Str("key", key).Msg("Directory cache hit")
		return append([]T(nil), v.([]T)...), nil
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	s.store(key, append([]T(nil), result...))
	return result, nil
}

func (s *Service) GetRegions(ctx context.Context) ([]models.Region, error) {
	return cached(s, "regions", func() ([]models.Region, error) {
		return s.client.GetRegions(ctx)
	})
}

func (s *Service) GetCountries(ctx context.Context) ([]string, error) {
	return cached(s, "countries", func() ([]string, error) {
		return s.client.GetCountries(ctx)
	})
}

func (s *Service) GetCategories(ctx context.Context) ([]string, error) {
	return cached(s, "categories", func() ([]string, error) {
		return s.client.GetCategories(ctx)
	})
}

func (s *Service) GetCompanies(ctx context.Context, country, category string) ([]models.Company, error) {
	return cached(s, "companies/"+country+"?"+category, func() ([]models.Company, error) {
		return s.client.GetCompanies(ctx, country, category)
	})
}

func (s *Service) GetAllCompanies(ctx context.Context) ([]models.Company, error) {
	return cached(s, "companies", func() ([]models.Company, error) {
		return s.client.GetAllCompanies(ctx)
	})
}

func (s *Service) GetUSACompanies(ctx context.Context) ([]models.Company, error) {
	return cached(s, "companies/usa", func() ([]models.Company, error) {
		return s.client.GetUSACompanies(ctx)
	})
}

func (s *Service) GetRegionCompanies(ctx context.Context, region string) ([]models.Company, error) {
	return cached(s, "companies/region/"+region, func() ([]models.Company, error) {
		return s.client.GetRegionCompanies(ctx, region)
	})
}

// GetFinancials is never cached
func (s *Service) GetFinancials(ctx context.Context, ticker string) (*models.FinancialsResponse, error) {
	return s.client.GetFinancials(ctx, ticker)
}
