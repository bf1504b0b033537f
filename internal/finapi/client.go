// Package finapi is a client for the remote financial-data API that serves
// company directories and per-company financial series.
package finapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/multiples/internal/models"
)

const (
	// DefaultBaseURL is the development address of the financial-data API.
	DefaultBaseURL = "http://localhost:5000/api"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	// CategoryAll selects every category; it is never sent to the API.
	CategoryAll = "All"

	maxErrorBody = 4096
)

// Client is a financial-data API client. Requests are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP timeout; zero disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit; zero or less disables limiting.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(math.Ceil(requestsPerSecond))
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// NewClient creates a new financial-data API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Endpoint: path, Err: err}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().
			Str("url", reqURL).
			Msg("Financial API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &TransportError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    message,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return &TransportError{Endpoint: path, Err: err}
		}
		return &ParseError{Endpoint: path, Err: err}
	}

	return nil
}

// GetRegions retrieves every region with its categories or companies.
func (c *Client) GetRegions(ctx context.Context) ([]models.Region, error) {
	var result []models.Region
	if err := c.get(ctx, "/regions", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCountries retrieves the country names that have listed companies.
func (c *Client) GetCountries(ctx context.Context) ([]string, error) {
	var result []string
	if err := c.get(ctx, "/countries", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCategories retrieves the US category names.
func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var result []string
	if err := c.get(ctx, "/categories/usa", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCompanies retrieves the companies of a country, optionally filtered by category.
// An empty category or CategoryAll sends no filter.
func (c *Client) GetCompanies(ctx context.Context, country, category string) ([]models.Company, error) {
	if strings.TrimSpace(country) == "" {
		return nil, fmt.Errorf("country is required")
	}
	params := url.Values{}
	if category != "" && category != CategoryAll {
		params.Set("category", category)
	}
	return c.getCompanies(ctx, "/companies/"+url.PathEscape(country), params)
}

// GetAllCompanies retrieves every company regardless of country.
func (c *Client) GetAllCompanies(ctx context.Context) ([]models.Company, error) {
	return c.getCompanies(ctx, "/companies", nil)
}

// GetUSACompanies retrieves the US listed companies.
func (c *Client) GetUSACompanies(ctx context.Context) ([]models.Company, error) {
	return c.getCompanies(ctx, "/companies/usa", nil)
}

// GetRegionCompanies retrieves the companies of a named region.
func (c *Client) GetRegionCompanies(ctx context.Context, region string) ([]models.Company, error) {
	if strings.TrimSpace(region) == "" {
		return nil, fmt.Errorf("region is required")
	}
	return c.getCompanies(ctx, "/companies/region/"+url.PathEscape(region), nil)
}

func (c *Client) getCompanies(ctx context.Context, path string, params url.Values) ([]models.Company, error) {
	var result models.CompaniesResponse
	if err := c.get(ctx, path, params, &result); err != nil {
		return nil, err
	}
	if result.Companies == nil {
		return nil, &ParseError{Endpoint: path, Err: errors.New("invalid data format: missing companies")}
	}
	return *result.Companies, nil
}

// GetFinancials retrieves the raw income-statement and market-cap series of a company.
func (c *Client) GetFinancials(ctx context.Context, ticker string) (*models.FinancialsResponse, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	var result models.FinancialsResponse
	if err := c.get(ctx, "/financials/"+url.PathEscape(ticker), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
