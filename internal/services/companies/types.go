package companies

import (
	"github.com/ternarybob/multiples/internal/models"
)

// UnknownExchange is shown when a country name carries no "(EXCHANGE)" suffix
const UnknownExchange = "Unknown Exchange"

// Directory is the company listing of one country selection
type Directory struct {
	Country            string       `json:"country"`
	Category           string       `json:"category"`
	ExchangeName       string       `json:"exchangeName"`
	ShowCategoryFilter bool         `json:"showCategoryFilter"`
	Categories         []string     `json:"categories,omitempty"`
	Companies          []CompanyRow `json:"companies"`
}

// CompanyRow is one company in a listing with its headline figures formatted
type CompanyRow struct {
	models.Company
	MarketCapDisplay   string `json:"marketCapDisplay"`
	GrossProfitDisplay string `json:"grossProfitDisplay"`
	NetIncomeDisplay   string `json:"netIncomeDisplay"`
	YearDisplay        string `json:"yearDisplay"`
}

// RegionView is the company listing of one region
type RegionView struct {
	Region             string           `json:"region"`
	Categories         []string         `json:"categories,omitempty"`
	SelectedCategories []string         `json:"selectedCategories,omitempty"`
	Companies          []models.Company `json:"companies"`
}

// YearRow is a YearlyMetricsView rendered for display
type YearRow struct {
	Year                string `json:"year"`
	Date                string `json:"date"`
	Revenue             string `json:"revenue"`
	RevenueGrowth       string `json:"revenueGrowth"`
	GrossProfit         string `json:"grossProfit"`
	GrossProfitGrowth   string `json:"grossProfitGrowth"`
	NetIncome           string `json:"netIncome"`
	NetIncomeGrowth     string `json:"netIncomeGrowth"`
	EPS                 string `json:"eps"`
	MarketCap           string `json:"marketCap"`
	RevenueMultiple     string `json:"revenueMultiple"`
	GrossProfitMultiple string `json:"grossProfitMultiple"`
	NetIncomeMultiple   string `json:"netIncomeMultiple"`
}

// MarketCapRow is one market-cap observation rendered for display
type MarketCapRow struct {
	Date      string `json:"date"`
	MarketCap string `json:"marketCap"`
}

// CompanyDetails is everything the company page shows
type CompanyDetails struct {
	Ticker           string                      `json:"ticker"`
	Name             string                      `json:"name"`
	Focus            string                      `json:"focus,omitempty"`
	Exchange         string                      `json:"exchange,omitempty"`
	Summary          models.SummaryMetrics       `json:"summary"`
	SummaryDisplay   YearRow                     `json:"summaryDisplay"`
	Years            []models.YearlyMetricsView  `json:"years"`
	YearRows         []YearRow                   `json:"yearRows"`
	Statements       []models.StatementBreakdown `json:"statements"`
	MarketCapHistory []MarketCapRow              `json:"marketCapHistory"`
}
