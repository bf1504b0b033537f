package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/common"
	"github.com/ternarybob/multiples/internal/finapi"
	"github.com/ternarybob/multiples/internal/models"
	"github.com/ternarybob/multiples/internal/services/analytics"
	"github.com/ternarybob/multiples/internal/services/companies"
	"github.com/ternarybob/multiples/internal/services/session"
)

type fakeClient struct {
	regions    []models.Region
	countries  []string
	categories []string
	companies  []models.Company
	financials *models.FinancialsResponse
	err        error
}

func (f *fakeClient) GetRegions(context.Context) ([]models.Region, error) {
	return f.regions, f.err
}

func (f *fakeClient) GetCountries(context.Context) ([]string, error) {
	return f.countries, f.err
}

func (f *fakeClient) GetCategories(context.Context) ([]string, error) {
	return f.categories, f.err
}

func (f *fakeClient) GetCompanies(context.Context, string, string) ([]models.Company, error) {
	return f.companies, f.err
}

func (f *fakeClient) GetAllCompanies(context.Context) ([]models.Company, error) {
	return f.companies, f.err
}

func (f *fakeClient) GetUSACompanies(context.Context) ([]models.Company, error) {
	return f.companies, f.err
}

func (f *fakeClient) GetRegionCompanies(context.Context, string) ([]models.Company, error) {
	return f.companies, f.err
}

func (f *fakeClient) GetFinancials(context.Context, string) (*models.FinancialsResponse, error) {
	return f.financials, f.err
}

type fakePDF struct {
	title string
}

func (f *fakePDF) ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	f.title = title
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakePDF) PageCount([]byte) (int, error) {
	return 1, nil
}

func sampleFinancials() *models.FinancialsResponse {
	return &models.FinancialsResponse{
		Name: "Apple Inc.",
		IncomeStatement: []models.IncomeStatementRecord{
			{Date: "2022-09-24", CalendarYear: "2022", Revenue: null.FloatFrom(400), GrossProfit: null.FloatFrom(160), NetIncome: null.FloatFrom(100)},
			{Date: "2023-09-30", CalendarYear: "2023", Revenue: null.FloatFrom(500), GrossProfit: null.FloatFrom(200), NetIncome: null.FloatFrom(125)},
		},
		MarketCap: []models.MarketCapSnapshot{
			{Date: "2023-09-29", MarketCap: null.FloatFrom(5000)},
		},
	}
}

func newCompanyService(client *fakeClient) *companies.Service {
	return companies.NewService(client, analytics.NewNoopSink(), arbor.NewLogger())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAPIHandler(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Storage.Type = "badger"
	h := NewAPIHandler(config, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody(t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "badger", health["sessions"])
	assert.Equal(t, "10m0s", health["directory_cache"])

	config.API.CacheTTL = "0"
	rec = httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, "disabled", decodeBody(t, rec)["directory_cache"])

	rec = httptest.NewRecorder()
	h.VersionHandler(rec, httptest.NewRequest("GET", "/api/version", nil))
	assert.Equal(t, "multiples", decodeBody(t, rec)["service"])

	rec = httptest.NewRecorder()
	h.VersionHandler(rec, httptest.NewRequest("POST", "/api/version", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.NotFoundHandler(rec, httptest.NewRequest("GET", "/api/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	missing := decodeBody(t, rec)
	assert.Equal(t, "/api/missing", missing["path"])
	assert.Equal(t, "error", missing["status"])
}

func TestDirectoryHandler_Companies(t *testing.T) {
	client := &fakeClient{
		companies:  []models.Company{{Name: "Apple Inc.", Ticker: "AAPL"}},
		categories: []string{"Technology"},
	}
	h := NewDirectoryHandler(newCompanyService(client), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.CompaniesHandler(rec, httptest.NewRequest("GET", "/api/companies?country=United+States+(NASDAQ)&category=Technology", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dir companies.Directory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dir))
	assert.Equal(t, "NASDAQ", dir.ExchangeName)
	assert.Equal(t, "Technology", dir.Category)
	assert.True(t, dir.ShowCategoryFilter)
	require.Len(t, dir.Companies, 1)
	assert.Equal(t, "AAPL", dir.Companies[0].Ticker)

	rec = httptest.NewRecorder()
	h.CompaniesHandler(rec, httptest.NewRequest("GET", "/api/companies", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectoryHandler_RegionCompanies(t *testing.T) {
	client := &fakeClient{regions: []models.Region{{
		Name: "Asia Pacific",
		Categories: []models.Category{
			{Name: "Banks", Companies: []models.Company{{Ticker: "CBA.AX"}}},
			{Name: "Miners", Companies: []models.Company{{Ticker: "BHP.AX"}}},
		},
	}}}
	h := NewDirectoryHandler(newCompanyService(client), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.RegionCompaniesHandler(rec, httptest.NewRequest("GET", "/api/regions/Asia%20Pacific/companies?category=Miners", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view companies.RegionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Companies, 1)
	assert.Equal(t, "BHP.AX", view.Companies[0].Ticker)
	assert.Equal(t, "Miners", view.Companies[0].CategoryName)

	rec = httptest.NewRecorder()
	h.RegionCompaniesHandler(rec, httptest.NewRequest("GET", "/api/regions/Europe/companies", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.RegionCompaniesHandler(rec, httptest.NewRequest("GET", "/api/regions/Europe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectoryHandler_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "transport", err: &finapi.TransportError{StatusCode: 503, Endpoint: "/countries", Message: "unavailable"}},
		{name: "parse", err: &finapi.ParseError{Endpoint: "/countries", Err: errors.New("bad json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDirectoryHandler(newCompanyService(&fakeClient{err: tt.err}), arbor.NewLogger())

			rec := httptest.NewRecorder()
			h.CountriesHandler(rec, httptest.NewRequest("GET", "/api/countries", nil))
			assert.Equal(t, http.StatusBadGateway, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, "/api/countries", body["retry"])
		})
	}
}

func TestCompanyHandler_Details(t *testing.T) {
	client := &fakeClient{financials: sampleFinancials()}
	h := NewCompanyHandler(newCompanyService(client), &fakePDF{}, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.DetailsHandler(rec, httptest.NewRequest("GET", "/api/companies/aapl?country=United+States+(NASDAQ)", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var details companies.CompanyDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Equal(t, "AAPL", details.Ticker)
	assert.Equal(t, "NASDAQ", details.Exchange)
	require.Len(t, details.Years, 2)
	assert.Equal(t, "2023-09-30", details.Years[0].Date)
	assert.Equal(t, 25.0, details.Years[0].RevenueGrowthPct.Float64)
	assert.Equal(t, 10.0, details.Summary.MarketCapToRevenueMultiple.Float64)
}

func TestCompanyHandler_DetailsErrors(t *testing.T) {
	t.Run("invalid ticker", func(t *testing.T) {
		h := NewCompanyHandler(newCompanyService(&fakeClient{}), &fakePDF{}, arbor.NewLogger())
		rec := httptest.NewRecorder()
		h.DetailsHandler(rec, httptest.NewRequest("GET", "/api/companies/A%2AB", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("undated statement still renders", func(t *testing.T) {
		fin := sampleFinancials()
		fin.IncomeStatement[1].Date = ""
		h := NewCompanyHandler(newCompanyService(&fakeClient{financials: fin}), &fakePDF{}, arbor.NewLogger())
		rec := httptest.NewRecorder()
		h.DetailsHandler(rec, httptest.NewRequest("GET", "/api/companies/AAPL", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		err := &finapi.TransportError{StatusCode: 500, Endpoint: "/financials/AAPL", Message: "boom"}
		h := NewCompanyHandler(newCompanyService(&fakeClient{err: err}), &fakePDF{}, arbor.NewLogger())
		rec := httptest.NewRecorder()
		h.DetailsHandler(rec, httptest.NewRequest("GET", "/api/companies/AAPL", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "/api/companies/AAPL", decodeBody(t, rec)["retry"])
	})
}

func TestCompanyHandler_Reports(t *testing.T) {
	client := &fakeClient{financials: sampleFinancials()}
	pdf := &fakePDF{}
	h := NewCompanyHandler(newCompanyService(client), pdf, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest("GET", "/api/companies/AAPL/report.md", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Apple Inc. (AAPL)"))

	rec = httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest("GET", "/api/companies/AAPL/report.html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<table>")
	assert.Contains(t, rec.Body.String(), "<title>Apple Inc. (AAPL) financial report</title>")

	rec = httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest("GET", "/api/companies/AAPL/report.pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Apple Inc. (AAPL) financial report", pdf.title)

	rec = httptest.NewRecorder()
	h.ReportHandler(rec, httptest.NewRequest("GET", "/api/companies/AAPL/report.docx", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	svc := session.NewService(session.NewMemoryStore(), arbor.NewLogger())
	h := NewSessionHandler(svc, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.CreateSessionHandler(rec, httptest.NewRequest("POST", "/api/session", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.SessionState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)
	path := "/api/session/" + created.SessionID

	rec = httptest.NewRecorder()
	h.GetSessionHandler(rec, httptest.NewRequest("GET", path, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := `{"selectedCountry":"Japan (TSE)","exchangeName":"TSE","baseRevision":0}`
	rec = httptest.NewRecorder()
	h.UpdateSessionHandler(rec, httptest.NewRequest("PUT", path, strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated updateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Changed)
	assert.Equal(t, int64(1), updated.State.Revision)

	// Replaying the same base revision loses to the update already stored
	rec = httptest.NewRecorder()
	h.UpdateSessionHandler(rec, httptest.NewRequest("PUT", path, strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	h.GetSessionHandler(rec, httptest.NewRequest("GET", path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Japan (TSE)", decodeBody(t, rec)["selectedCountry"])

	rec = httptest.NewRecorder()
	h.DeleteSessionHandler(rec, httptest.NewRequest("DELETE", path, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.GetSessionHandler(rec, httptest.NewRequest("GET", path, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionHandler_BadRequests(t *testing.T) {
	h := NewSessionHandler(session.NewService(session.NewMemoryStore(), arbor.NewLogger()), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.GetSessionHandler(rec, httptest.NewRequest("GET", "/api/session/not-a-session", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateSessionHandler(rec, httptest.NewRequest("PUT", "/api/session/sess_x", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
