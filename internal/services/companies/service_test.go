package companies

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/finapi"
	"github.com/ternarybob/multiples/internal/format"
	"github.com/ternarybob/multiples/internal/metrics"
	"github.com/ternarybob/multiples/internal/models"
)

type mockClient struct {
	regions    []models.Region
	countries  []string
	categories []string
	companies  []models.Company
	financials *models.FinancialsResponse
	err        error

	lastCountry  string
	lastCategory string
	categoryHits int
}

func (m *mockClient) GetRegions(context.Context) ([]models.Region, error) {
	return m.regions, m.err
}

func (m *mockClient) GetCountries(context.Context) ([]string, error) {
	return m.countries, m.err
}

func (m *mockClient) GetCategories(context.Context) ([]string, error) {
	m.categoryHits++
	return m.categories, m.err
}

func (m *mockClient) GetCompanies(_ context.Context, country, category string) ([]models.Company, error) {
	m.lastCountry, m.lastCategory = country, category
	return m.companies, m.err
}

func (m *mockClient) GetAllCompanies(context.Context) ([]models.Company, error) {
	return m.companies, m.err
}

func (m *mockClient) GetUSACompanies(context.Context) ([]models.Company, error) {
	return m.companies, m.err
}

func (m *mockClient) GetRegionCompanies(context.Context, string) ([]models.Company, error) {
	return m.companies, m.err
}

func (m *mockClient) GetFinancials(context.Context, string) (*models.FinancialsResponse, error) {
	return m.financials, m.err
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
}

func (r *recordingSink) Track(_ context.Context, e models.AnalyticsEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) names() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

func newTestService(client *mockClient) (*Service, *recordingSink) {
	sink := &recordingSink{}
	return NewService(client, sink, arbor.NewLogger()), sink
}

func appleFinancials() *models.FinancialsResponse {
	return &models.FinancialsResponse{
		Name:  "Apple Inc.",
		Focus: "Consumer electronics",
		IncomeStatement: []models.IncomeStatementRecord{
			{Date: "2022-09-24", CalendarYear: "2022", Revenue: null.FloatFrom(394_328_000_000), GrossProfit: null.FloatFrom(170_782_000_000), NetIncome: null.FloatFrom(99_803_000_000), EPSDiluted: null.FloatFrom(6.11)},
			{Date: "2023-09-30", CalendarYear: "2023", Revenue: null.FloatFrom(383_290_000_000), GrossProfit: null.FloatFrom(169_148_000_000), NetIncome: null.FloatFrom(96_995_000_000), EPSDiluted: null.FloatFrom(6.13)},
		},
		MarketCap: []models.MarketCapSnapshot{
			{Date: "2022-09-23", MarketCap: null.FloatFrom(2_400_000_000_000)},
			{Date: "2023-09-29", MarketCap: null.FloatFrom(2_700_000_000_000)},
		},
	}
}

func TestExchangeName(t *testing.T) {
	tests := []struct {
		country  string
		expected string
	}{
		{"United States (NYSE)", "NYSE"},
		{"Japan (TSE)", "TSE"},
		{"Germany", UnknownExchange},
		{"", UnknownExchange},
	}
	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExchangeName(tt.country))
		})
	}
}

func TestListCompanies_USAKeepsCategory(t *testing.T) {
	client := &mockClient{
		categories: []string{"Software"},
		companies: []models.Company{
			{Name: "Oracle", Ticker: "ORCL", Financials: &models.CompanyFinancials{Year: "2023", MarketCap: null.FloatFrom(3e11), NetIncome: null.FloatFrom(0)}},
			{Name: "NoData", Ticker: "ND"},
		},
	}
	service, sink := newTestService(client)

	dir, err := service.ListCompanies(context.Background(), "United States (NYSE)", "Software")
	require.NoError(t, err)

	assert.Equal(t, "Software", client.lastCategory)
	assert.True(t, dir.ShowCategoryFilter)
	assert.Equal(t, []string{"Software"}, dir.Categories)
	assert.Equal(t, "NYSE", dir.ExchangeName)
	require.Len(t, dir.Companies, 2)
	assert.Equal(t, "$300.00B", dir.Companies[0].MarketCapDisplay)
	assert.Equal(t, "$0", dir.Companies[0].NetIncomeDisplay)
	assert.Equal(t, "N/A", dir.Companies[0].GrossProfitDisplay)
	assert.Equal(t, "2023", dir.Companies[0].YearDisplay)
	assert.Equal(t, "N/A", dir.Companies[1].MarketCapDisplay)
	assert.Equal(t, []string{models.EventFilterByCountry, models.EventFilterByCategory}, sink.names())
}

func TestListCompanies_NonUSAResetsCategory(t *testing.T) {
	client := &mockClient{companies: []models.Company{}}
	service, sink := newTestService(client)

	dir, err := service.ListCompanies(context.Background(), "Japan (TSE)", "Software")
	require.NoError(t, err)

	assert.Equal(t, finapi.CategoryAll, dir.Category)
	assert.Equal(t, finapi.CategoryAll, client.lastCategory)
	assert.False(t, dir.ShowCategoryFilter)
	assert.Zero(t, client.categoryHits)
	assert.Empty(t, dir.Companies)
	assert.Equal(t, []string{models.EventFilterByCountry}, sink.names())
}

func TestListCompanies_Errors(t *testing.T) {
	service, _ := newTestService(&mockClient{err: &finapi.ParseError{Endpoint: "/companies/x", Err: errors.New("bad")}})

	_, err := service.ListCompanies(context.Background(), "Japan (TSE)", "")
	var parseErr *finapi.ParseError
	assert.True(t, errors.As(err, &parseErr))

	_, err = service.ListCompanies(context.Background(), "  ", "")
	assert.Error(t, err)
}

func TestRegionCompanies(t *testing.T) {
	client := &mockClient{regions: []models.Region{
		{Name: "USA", Categories: []models.Category{
			{Name: "Software", Companies: []models.Company{{Name: "Oracle", Ticker: "ORCL"}}},
			{Name: "Semiconductors", Companies: []models.Company{{Name: "Nvidia", Ticker: "NVDA"}, {Name: "AMD", Ticker: "AMD"}}},
		}},
		{Name: "Europe", Companies: []models.Company{{Name: "ASML", Ticker: "ASML"}}},
	}}
	service, _ := newTestService(client)
	ctx := context.Background()

	t.Run("no selection shows nothing", func(t *testing.T) {
		view, err := service.RegionCompanies(ctx, "USA", nil)
		require.NoError(t, err)
		assert.Empty(t, view.Companies)
		assert.Equal(t, []string{"Software", "Semiconductors"}, view.Categories)
	})

	t.Run("selection order is kept and companies are tagged", func(t *testing.T) {
		view, err := service.RegionCompanies(ctx, "usa", []string{"Semiconductors", "Software"})
		require.NoError(t, err)
		require.Len(t, view.Companies, 3)
		assert.Equal(t, "NVDA", view.Companies[0].Ticker)
		assert.Equal(t, "Semiconductors", view.Companies[0].CategoryName)
		assert.Equal(t, "Software", view.Companies[2].CategoryName)
	})

	t.Run("all selects every category", func(t *testing.T) {
		view, err := service.RegionCompanies(ctx, "USA", []string{finapi.CategoryAll})
		require.NoError(t, err)
		assert.Len(t, view.Companies, 3)
		assert.Equal(t, "ORCL", view.Companies[0].Ticker)
	})

	t.Run("flat region", func(t *testing.T) {
		view, err := service.RegionCompanies(ctx, "Europe", []string{"Software"})
		require.NoError(t, err)
		require.Len(t, view.Companies, 1)
		assert.Empty(t, view.Companies[0].CategoryName)
	})

	t.Run("unknown region", func(t *testing.T) {
		_, err := service.RegionCompanies(ctx, "Mars", nil)
		assert.ErrorIs(t, err, ErrRegionNotFound)
	})
}

func TestCompanyDetails(t *testing.T) {
	fin := appleFinancials()
	service, sink := newTestService(&mockClient{financials: fin})

	details, err := service.CompanyDetails(context.Background(), "aapl", &models.Company{Name: "Apple", Focus: "Hardware"}, "NASDAQ")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", details.Ticker)
	assert.Equal(t, "Apple Inc.", details.Name)
	assert.Equal(t, "Consumer electronics", details.Focus)
	require.Len(t, details.Years, 2)

	// the headline summary is the first derived year, never a separate computation
	assert.Equal(t, metrics.LatestPeriodSummary(fin.IncomeStatement, fin.MarketCap), details.Summary)
	assert.Equal(t, details.Years[0], details.Summary)

	assert.Equal(t, "2023", details.SummaryDisplay.Year)
	assert.Equal(t, "$383.29B", details.SummaryDisplay.Revenue)
	assert.Equal(t, "-2.8%", details.SummaryDisplay.RevenueGrowth)
	assert.Equal(t, "$2700.00B", details.SummaryDisplay.MarketCap)
	assert.Equal(t, "7.04x", details.SummaryDisplay.RevenueMultiple)
	assert.Equal(t, "$6.13", details.SummaryDisplay.EPS)
	assert.Equal(t, "N/A", details.YearRows[1].RevenueGrowth)

	require.Len(t, details.Statements, 2)
	assert.Equal(t, "2023-09-30", details.Statements[0].Date)
	require.Len(t, details.MarketCapHistory, 2)
	assert.Equal(t, "Sep 29, 2023", details.MarketCapHistory[0].Date)

	assert.Equal(t, []string{models.EventViewCompanyDetails, models.EventFinancialDataLoaded}, sink.names())
}

func TestCompanyDetails_EmptySeries(t *testing.T) {
	service, _ := newTestService(&mockClient{financials: &models.FinancialsResponse{}})

	details, err := service.CompanyDetails(context.Background(), "SHEL", nil, "")
	require.NoError(t, err)
	assert.Empty(t, details.Years)
	assert.Equal(t, models.SummaryMetrics{}, details.Summary)
	assert.Equal(t, "N/A", details.SummaryDisplay.Revenue)
	assert.Equal(t, "N/A", details.SummaryDisplay.Year)
}

func TestCompanyDetails_Errors(t *testing.T) {
	transport := &finapi.TransportError{StatusCode: 503, Endpoint: "/financials/AAPL", Message: "down"}
	service, sink := newTestService(&mockClient{err: transport})

	_, err := service.CompanyDetails(context.Background(), "AAPL", nil, "")
	var transportErr *finapi.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, []string{models.EventViewCompanyDetails, models.EventFinancialDataFailure}, sink.names())
	assert.Equal(t, "transport", sink.events[1].Properties["error_kind"])

	_, err = service.CompanyDetails(context.Background(), "../x", nil, "")
	assert.Error(t, err)

}

func TestCompanyDetails_UndatedStatementStillRenders(t *testing.T) {
	fin := appleFinancials()
	fin.IncomeStatement = append(fin.IncomeStatement, models.IncomeStatementRecord{CalendarYear: "2020", Revenue: null.FloatFrom(274_515_000_000)})
	service, _ := newTestService(&mockClient{financials: fin})

	details, err := service.CompanyDetails(context.Background(), "AAPL", nil, "")
	require.NoError(t, err)
	require.Len(t, details.Years, 3)

	assert.Equal(t, details.Years[0], details.Summary)
	assert.Equal(t, "-2.8%", details.SummaryDisplay.RevenueGrowth)
	assert.Equal(t, "2020", details.YearRows[2].Year)
	assert.Equal(t, format.NotAvailable, details.YearRows[2].MarketCap)
}

func TestReportMarkdown(t *testing.T) {
	service, _ := newTestService(&mockClient{financials: appleFinancials()})
	details, err := service.CompanyDetails(context.Background(), "AAPL", nil, "NASDAQ")
	require.NoError(t, err)

	report := ReportMarkdown(details)
	assert.True(t, strings.HasPrefix(report, "# Apple Inc. (AAPL)"))
	assert.Contains(t, report, "## Key Financial Metrics (2023)")
	assert.Contains(t, report, "| Market Cap / Revenue | 7.04x |")
	assert.Contains(t, report, "## Historical Financial Data")
	assert.Contains(t, report, "| Revenue | $383,290M | 100.00% |")
	assert.Contains(t, report, "## Market Capitalization History")
	assert.Contains(t, report, "Exchange: NASDAQ")

	empty := ReportMarkdown(&CompanyDetails{Ticker: "SHEL"})
	assert.Contains(t, empty, "# SHEL (SHEL)")
	assert.Contains(t, empty, "No financial data available.")
}
