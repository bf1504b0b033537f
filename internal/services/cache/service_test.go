package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/models"
)

type countingClient struct {
	calls map[string]int
	err   error
}

func newCountingClient() *countingClient {
	return &countingClient{calls: make(map[string]int)}
}

func (c *countingClient) GetRegions(context.Context) ([]models.Region, error) {
	c.calls["regions"]++
	return []models.Region{{Name: "Europe"}}, c.err
}

func (c *countingClient) GetCountries(context.Context) ([]string, error) {
	c.calls["countries"]++
	if c.err != nil {
		return nil, c.err
	}
	return []string{"Japan (TSE)"}, nil
}

func (c *countingClient) GetCategories(context.Context) ([]string, error) {
	c.calls["categories"]++
	return []string{"Technology"}, c.err
}

func (c *countingClient) GetCompanies(_ context.Context, country, category string) ([]models.Company, error) {
	c.calls["companies/"+country+"?"+category]++
	return []models.Company{{Ticker: "7203.T"}}, c.err
}

func (c *countingClient) GetAllCompanies(context.Context) ([]models.Company, error) {
	c.calls["all"]++
	return nil, c.err
}

func (c *countingClient) GetUSACompanies(context.Context) ([]models.Company, error) {
	c.calls["usa"]++
	return nil, c.err
}

func (c *countingClient) GetRegionCompanies(context.Context, string) ([]models.Company, error) {
	c.calls["region"]++
	return nil, c.err
}

func (c *countingClient) GetFinancials(context.Context, string) (*models.FinancialsResponse, error) {
	c.calls["financials"]++
	return &models.FinancialsResponse{}, c.err
}

func TestService_ServesFreshLookupsFromMemory(t *testing.T) {
	client := newCountingClient()
	svc := NewService(client, time.Minute, arbor.NewLogger())
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		countries, err := svc.GetCountries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Japan (TSE)"}, countries)
	}
	assert.Equal(t, 1, client.calls["countries"])

	_, err := svc.GetCompanies(ctx, "Japan (TSE)", "All")
	require.NoError(t, err)
	_, err = svc.GetCompanies(ctx, "Japan (TSE)", "All")
	require.NoError(t, err)
	_, err = svc.GetCompanies(ctx, "Japan (TSE)", "Technology")
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls["companies/Japan (TSE)?All"])
	assert.Equal(t, 1, client.calls["companies/Japan (TSE)?Technology"])

	now = now.Add(time.Minute)
	_, err = svc.GetCountries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls["countries"])
}

func TestService_ReturnsCopies(t *testing.T) {
	svc := NewService(newCountingClient(), time.Minute, arbor.NewLogger())
	ctx := context.Background()

	first, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Technology"}, second)
}

func TestService_FailuresAndFinancialsBypass(t *testing.T) {
	client := newCountingClient()
	client.err = errors.New("unavailable")
	svc := NewService(client, time.Minute, arbor.NewLogger())
	ctx := context.Background()

	_, err := svc.GetCountries(ctx)
	assert.Error(t, err)
	_, err = svc.GetCountries(ctx)
	assert.Error(t, err)
	assert.Equal(t, 2, client.calls["countries"])

	client.err = nil
	_, err = svc.GetFinancials(ctx, "AAPL")
	require.NoError(t, err)
	_, err = svc.GetFinancials(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls["financials"])

	_, err = svc.GetRegions(ctx)
	require.NoError(t, err)
	svc.Invalidate()
	_, err = svc.GetRegions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls["regions"])
}
