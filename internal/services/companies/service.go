// Package companies is the view controller behind the directory and company pages.
package companies

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/finapi"
	"github.com/ternarybob/multiples/internal/format"
	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/metrics"
	"github.com/ternarybob/multiples/internal/models"
	"github.com/ternarybob/multiples/internal/services/analytics"
)

// ErrRegionNotFound is returned when a region name is not in the directory
var (
	ErrRegionNotFound  = errors.New("region not found")
	ErrCountryRequired = errors.New("country is required")
)

var exchangePattern = regexp.MustCompile(`\(([^)]+)\)`)

// Service builds directory and company views from the financial-data API
type Service struct {
	client interfaces.FinancialDataClient
	sink   interfaces.AnalyticsSink
	logger arbor.ILogger
}

// NewService creates a companies service; a nil sink discards analytics
func NewService(client interfaces.FinancialDataClient, sink interfaces.AnalyticsSink, logger arbor.ILogger) *Service {
	if sink == nil {
		sink = analytics.NewNoopSink()
	}
	return &Service{client: client, sink: sink, logger: logger}
}

// ExchangeName extracts the exchange from "Country (EXCHANGE)"
func ExchangeName(country string) string {
	if m := exchangePattern.FindStringSubmatch(country); m != nil {
		return strings.TrimSpace(m[1])
	}
	return UnknownExchange
}

// IsUSA reports whether the country selection is a US listing, the only one with categories
func IsUSA(country string) bool {
	return strings.Contains(country, "United States")
}

func (s *Service) Regions(ctx context.Context) ([]models.Region, error) {
	return s.client.GetRegions(ctx)
}

func (s *Service) Countries(ctx context.Context) ([]string, error) {
	return s.client.GetCountries(ctx)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.client.GetCategories(ctx)
}

// RegionCompanies lists the companies of a region. For categorised regions only
// the selected categories are included, in selection order, each company tagged
// with its category; "All" selects every category and no selection yields none.
func (s *Service) RegionCompanies(ctx context.Context, regionName string, selected []string) (*RegionView, error) {
	regions, err := s.client.GetRegions(ctx)
	if err != nil {
		return nil, err
	}

	var region *models.Region
	for i := range regions {
		if strings.EqualFold(regions[i].Name, regionName) {
			region = &regions[i]
			break
		}
	}
	if region == nil {
		return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, regionName)
	}

	view := &RegionView{Region: region.Name, Companies: []models.Company{}}
	if len(region.Categories) == 0 {
		view.Companies = append(view.Companies, region.Companies...)
		return view, nil
	}

	for _, c := range region.Categories {
		view.Categories = append(view.Categories, c.Name)
	}

	selectAll := false
	for _, name := range selected {
		if name == finapi.CategoryAll {
			selectAll = true
		}
	}
	if selectAll {
		selected = view.Categories
	}
	view.SelectedCategories = selected

	for _, name := range selected {
		for _, c := range region.Categories {
			if c.Name != name {
				continue
			}
			for _, company := range c.Companies {
				company.CategoryName = c.Name
				view.Companies = append(view.Companies, company)
			}
		}
		s.sink.Track(ctx, analytics.CategoryFilter(name))
	}
	return view, nil
}

// ListCompanies lists a country's companies. The category filter applies to
// US listings only; any other country is always listed with category "All".
func (s *Service) ListCompanies(ctx context.Context, country, category string) (*Directory, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, ErrCountryRequired
	}
	if category == "" || !IsUSA(country) {
		category = finapi.CategoryAll
	}

	s.sink.Track(ctx, analytics.CountryFilter(country))
	if category != finapi.CategoryAll {
		s.sink.Track(ctx, analytics.CategoryFilter(category))
	}

	companies, err := s.client.GetCompanies(ctx, country, category)
	if err != nil {
		s.logFetchError(err, "companies", country)
		return nil, err
	}

	dir := &Directory{
		Country:            country,
		Category:           category,
		ExchangeName:       ExchangeName(country),
		ShowCategoryFilter: IsUSA(country),
		Companies:          make([]CompanyRow, len(companies)),
	}
	if dir.ShowCategoryFilter {
		categories, err := s.client.GetCategories(ctx)
		if err != nil {
			s.logFetchError(err, "categories", country)
			return nil, err
		}
		dir.Categories = categories
	}

	for i, company := range companies {
		dir.Companies[i] = companyRow(company)
	}
	return dir, nil
}

func companyRow(company models.Company) CompanyRow {
	row := CompanyRow{
		Company:            company,
		MarketCapDisplay:   format.NotAvailable,
		GrossProfitDisplay: format.NotAvailable,
		NetIncomeDisplay:   format.NotAvailable,
		YearDisplay:        format.NotAvailable,
	}
	if f := company.Financials; f != nil {
		row.MarketCapDisplay = format.Currency(f.MarketCap)
		row.GrossProfitDisplay = format.Currency(f.GrossProfit)
		row.NetIncomeDisplay = format.Currency(f.NetIncome)
		if f.Year != "" {
			row.YearDisplay = string(f.Year)
		}
	}
	return row
}

// CompanyDetails fetches a company's financial series and derives every view
// of it from a single DeriveYearlyMetrics pass. known carries the directory
// entry the user clicked, when there is one.
func (s *Service) CompanyDetails(ctx context.Context, ticker string, known *models.Company, exchange string) (*CompanyDetails, error) {
	ticker, err := common.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	company := models.Company{Ticker: ticker}
	if known != nil {
		company = *known
		company.Ticker = ticker
	}
	s.sink.Track(ctx, analytics.CompanyView(company, exchange))

	fin, err := s.client.GetFinancials(ctx, ticker)
	if err != nil {
		kind := s.logFetchError(err, "financials", ticker)
		s.sink.Track(ctx, analytics.FinancialDataFailed(ticker, kind))
		return nil, err
	}

	name := fin.Name
	if name == "" {
		name = company.Name
	}
	focus := fin.Focus
	if focus == "" {
		focus = company.Focus
	}
	s.sink.Track(ctx, analytics.FinancialDataLoaded(ticker, name))

	years := metrics.DeriveYearlyMetrics(fin.IncomeStatement, fin.MarketCap)
	if undated := countUndated(years); undated > 0 {
		s.logger.Warn().Str("ticker", ticker).Int("undated", undated).Msg("Income statements without a usable date")
	}

	details := &CompanyDetails{
		Ticker:     ticker,
		Name:       name,
		Focus:      focus,
		Exchange:   exchange,
		Years:      years,
		YearRows:   make([]YearRow, len(years)),
		Statements: metrics.BreakdownStatements(fin.IncomeStatement),
	}
	details.Summary = metrics.Summarize(years)
	details.SummaryDisplay = yearRow(details.Summary)
	for i, y := range years {
		details.YearRows[i] = yearRow(y)
	}

	history := metrics.MarketCapHistory(fin.MarketCap)
	details.MarketCapHistory = make([]MarketCapRow, len(history))
	for i, mc := range history {
		details.MarketCapHistory[i] = MarketCapRow{Date: format.Date(mc.Date), MarketCap: format.Currency(mc.MarketCap)}
	}

	s.logger.Debug().
		Str("ticker", ticker).
		Int("statements", len(fin.IncomeStatement)).
		Int("market_caps", len(fin.MarketCap)).
		Msg("Company details derived")

	return details, nil
}

func yearRow(y models.YearlyMetricsView) YearRow {
	year := string(y.Year)
	if year == "" {
		year = format.NotAvailable
	}
	return YearRow{
		Year:                year,
		Date:                format.Date(y.Date),
		Revenue:             format.Currency(y.Revenue),
		RevenueGrowth:       format.GrowthRate(y.RevenueGrowthPct),
		GrossProfit:         format.Currency(y.GrossProfit),
		GrossProfitGrowth:   format.GrowthRate(y.GrossProfitGrowthPct),
		NetIncome:           format.Currency(y.NetIncome),
		NetIncomeGrowth:     format.GrowthRate(y.NetIncomeGrowthPct),
		EPS:                 format.EPS(y.EPS),
		MarketCap:           format.Currency(y.MatchedMarketCap),
		RevenueMultiple:     format.Multiple(y.MarketCapToRevenueMultiple),
		GrossProfitMultiple: format.Multiple(y.MarketCapToGrossProfitMultiple),
		NetIncomeMultiple:   format.Multiple(y.MarketCapToNetIncomeMultiple),
	}
}

// logFetchError logs API failures, keeping parse failures distinct from transport
// failures, and returns the error kind
func (s *Service) logFetchError(err error, what, subject string) string {
	var parseErr *finapi.ParseError
	var transportErr *finapi.TransportError
	switch {
	case errors.As(err, &parseErr):
		s.logger.Warn().Err(err).Str("error_kind", "parse").Str("endpoint", parseErr.Endpoint).Str("subject", subject).Msg("Malformed " + what + " response")
		return "parse"
	case errors.As(err, &transportErr):
		s.logger.Error().Err(err).Str("error_kind", "transport").Int("status", transportErr.StatusCode).Str("subject", subject).Msg("Failed to fetch " + what)
		return "transport"
	default:
		s.logger.Error().Err(err).Str("subject", subject).Msg("Failed to fetch " + what)
		return "other"
	}
}

func countUndated(years []models.YearlyMetricsView) int {
	n := 0
	for _, y := range years {
		if _, ok := format.ParseDate(y.Date); !ok {
			n++
		}
	}
	return n
}
