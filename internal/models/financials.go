package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/guregu/null/v6"
)

// CalendarYear is the fiscal year label reported with a statement.
// The remote API sends it either as a JSON string or a number.
type CalendarYear string

// UnmarshalJSON accepts "2023", 2023 or null
func (y *CalendarYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = CalendarYear(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("calendarYear: expected string or number, got %s", string(data))
	}
	if i, err := n.Int64(); err == nil {
		*y = CalendarYear(strconv.FormatInt(i, 10))
		return nil
	}
	*y = CalendarYear(n.String())
	return nil
}

// IncomeStatementRecord is one fiscal-year income statement.
// Monetary fields are in the reported currency's base unit; ratios are fractions.
// Every numeric field is nullable so that a reported 0 stays distinct from a missing value.
type IncomeStatementRecord struct {
	Date             string       `json:"date"`
	CalendarYear     CalendarYear `json:"calendarYear"`
	ReportedCurrency string       `json:"reportedCurrency,omitempty"`

	Revenue              null.Float `json:"revenue"`
	CostOfRevenue        null.Float `json:"costOfRevenue"`
	GrossProfit          null.Float `json:"grossProfit"`
	GrossProfitRatio     null.Float `json:"grossProfitRatio"`
	ResearchAndDevelop   null.Float `json:"researchAndDevelopmentExpenses"`
	SellingGeneralAdmin  null.Float `json:"sellingGeneralAndAdministrativeExpenses"`
	OperatingExpenses    null.Float `json:"operatingExpenses"`
	OperatingIncome      null.Float `json:"operatingIncome"`
	OperatingIncomeRatio null.Float `json:"operatingIncomeRatio"`
	EBITDA               null.Float `json:"ebitda"`
	EBITDARatio          null.Float `json:"ebitdaratio"`
	IncomeBeforeTax      null.Float `json:"incomeBeforeTax"`
	IncomeBeforeTaxRatio null.Float `json:"incomeBeforeTaxRatio"`
	IncomeTaxExpense     null.Float `json:"incomeTaxExpense"`
	NetIncome            null.Float `json:"netIncome"`
	NetIncomeRatio       null.Float `json:"netIncomeRatio"`
	EPS                  null.Float `json:"eps"`
	EPSDiluted           null.Float `json:"epsdiluted"`
	SharesOutstanding    null.Float `json:"weightedAverageShsOut"`
	SharesOutstandingDil null.Float `json:"weightedAverageShsOutDil"`
}

// MarketCapSnapshot is one point-in-time market capitalization observation
type MarketCapSnapshot struct {
	Date      string     `json:"date"`
	MarketCap null.Float `json:"marketCap"`
}

// FinancialsResponse is the body of GET /financials/{ticker}.
// The optional growth, valuation and raw blocks are passed through untouched;
// derived values are always recomputed from the two series.
type FinancialsResponse struct {
	Name               string                  `json:"name,omitempty"`
	Focus              string                  `json:"focus,omitempty"`
	IncomeStatement    []IncomeStatementRecord `json:"income_statement"`
	MarketCap          []MarketCapSnapshot     `json:"market_cap"`
	GrowthMetrics      json.RawMessage         `json:"growth_metrics,omitempty"`
	ValuationMultiples json.RawMessage         `json:"valuation_multiples,omitempty"`
	RawValues          json.RawMessage         `json:"raw_values,omitempty"`
}
