package analytics

import (
	"time"

	"github.com/ternarybob/multiples/internal/models"
)

func newEvent(name string, props map[string]string) models.AnalyticsEvent {
	return models.AnalyticsEvent{Name: name, Properties: props, Timestamp: time.Now().UTC()}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// CompanyView is emitted when a company's details are opened
func CompanyView(company models.Company, exchange string) models.AnalyticsEvent {
	return newEvent(models.EventViewCompanyDetails, map[string]string{
		"event_category": "Company Interaction",
		"event_label":    company.Name,
		"company_ticker": company.Ticker,
		"company_focus":  orUnknown(company.Focus),
		"exchange":       orUnknown(exchange),
	})
}

// FinancialDataLoaded is emitted once a company's financial series has been fetched
func FinancialDataLoaded(ticker, name string) models.AnalyticsEvent {
	label := name
	if label == "" {
		label = ticker
	}
	return newEvent(models.EventFinancialDataLoaded, map[string]string{
		"event_category": "Data Interaction",
		"event_label":    label,
		"company_ticker": ticker,
	})
}

// FinancialDataFailed is emitted when a company's financial series could not be fetched
func FinancialDataFailed(ticker, kind string) models.AnalyticsEvent {
	return newEvent(models.EventFinancialDataFailure, map[string]string{
		"event_category": "Data Interaction",
		"event_label":    ticker,
		"error_kind":     kind,
	})
}

// CategoryFilter is emitted when the category filter changes
func CategoryFilter(category string) models.AnalyticsEvent {
	return newEvent(models.EventFilterByCategory, map[string]string{
		"event_category": "Filter Usage",
		"event_label":    category,
	})
}

// CountryFilter is emitted when the country selection changes
func CountryFilter(country string) models.AnalyticsEvent {
	return newEvent(models.EventFilterByCountry, map[string]string{
		"event_category": "Filter Usage",
		"event_label":    country,
	})
}
