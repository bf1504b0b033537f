package interfaces

import (
	"context"

	"github.com/ternarybob/multiples/internal/models"
)

// FinancialDataClient fetches company directories and raw financial series
// from the remote financial-data API
type FinancialDataClient interface {
	GetRegions(ctx context.Context) ([]models.Region, error)
	GetCountries(ctx context.Context) ([]string, error)
	GetCategories(ctx context.Context) ([]string, error)

	// GetCompanies lists a country's companies; category "" or "All" means unfiltered
	GetCompanies(ctx context.Context, country, category string) ([]models.Company, error)
	GetAllCompanies(ctx context.Context) ([]models.Company, error)
	GetUSACompanies(ctx context.Context) ([]models.Company, error)
	GetRegionCompanies(ctx context.Context, region string) ([]models.Company, error)

	GetFinancials(ctx context.Context, ticker string) (*models.FinancialsResponse, error)
}
