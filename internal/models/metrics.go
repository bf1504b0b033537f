package models

import "github.com/guregu/null/v6"

// YearlyMetricsView is the derived per-fiscal-year view of one income statement
type YearlyMetricsView struct {
	Year                           CalendarYear `json:"year"`
	Date                           string       `json:"date"`
	Revenue                        null.Float   `json:"revenue"`
	RevenueGrowthPct               null.Float   `json:"revenueGrowthPct"`
	GrossProfit                    null.Float   `json:"grossProfit"`
	GrossProfitGrowthPct           null.Float   `json:"grossProfitGrowthPct"`
	NetIncome                      null.Float   `json:"netIncome"`
	NetIncomeGrowthPct             null.Float   `json:"netIncomeGrowthPct"`
	EPS                            null.Float   `json:"eps"`
	MatchedMarketCap               null.Float   `json:"matchedMarketCap"`
	MarketCapToRevenueMultiple     null.Float   `json:"marketCapToRevenueMultiple"`
	MarketCapToGrossProfitMultiple null.Float   `json:"marketCapToGrossProfitMultiple"`
	MarketCapToNetIncomeMultiple   null.Float   `json:"marketCapToNetIncomeMultiple"`
}

// SummaryMetrics is the headline view of the most recent fiscal year.
// The zero value is the all-null summary.
type SummaryMetrics = YearlyMetricsView

// StatementLineItem is one row of an income statement breakdown
type StatementLineItem struct {
	Label string     `json:"label"`
	Value null.Float `json:"value"`
	Ratio null.Float `json:"ratio"` // fraction of revenue
}

// StatementBreakdown is a single fiscal year laid out line by line
type StatementBreakdown struct {
	Year             CalendarYear        `json:"year"`
	Date             string              `json:"date"`
	ReportedCurrency string              `json:"reportedCurrency,omitempty"`
	Items            []StatementLineItem `json:"items"`
	EPS              null.Float          `json:"eps"`
	EPSDiluted       null.Float          `json:"epsDiluted"`
	Shares           null.Float          `json:"shares"`
	SharesDiluted    null.Float          `json:"sharesDiluted"`
}
