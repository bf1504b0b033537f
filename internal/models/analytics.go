package models

import "time"

// Analytics event names emitted by the view layer
const (
	EventViewCompanyDetails   = "view_company_details"
	EventFinancialDataLoaded  = "financial_data_loaded"
	EventFilterByCategory     = "filter_by_category"
	EventFilterByCountry      = "filter_by_country"
	EventFinancialDataFailure = "financial_data_failed"
)

// AnalyticsEvent is a single user-interaction event
type AnalyticsEvent struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
