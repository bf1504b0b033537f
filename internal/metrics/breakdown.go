package metrics

import (
	"sort"

	"github.com/guregu/null/v6"

	"github.com/ternarybob/multiples/internal/format"
	"github.com/ternarybob/multiples/internal/models"
)

// BreakdownStatement lays out one income statement line by line. Each item's
// ratio is the reported ratio when the API supplies one, otherwise item / revenue.
func BreakdownStatement(stmt models.IncomeStatementRecord) models.StatementBreakdown {
	line := func(label string, value, reported null.Float) models.StatementLineItem {
		ratio := reported
		if !ratio.Valid {
			ratio = ratioOf(value, stmt.Revenue)
		}
		return models.StatementLineItem{Label: label, Value: value, Ratio: ratio}
	}

	return models.StatementBreakdown{
		Year:             stmt.CalendarYear,
		Date:             stmt.Date,
		ReportedCurrency: stmt.ReportedCurrency,
		Items: []models.StatementLineItem{
			line("Revenue", stmt.Revenue, null.Float{}),
			line("Cost of Revenue", stmt.CostOfRevenue, null.Float{}),
			line("Gross Profit", stmt.GrossProfit, stmt.GrossProfitRatio),
			line("Research & Development", stmt.ResearchAndDevelop, null.Float{}),
			line("SG&A", stmt.SellingGeneralAdmin, null.Float{}),
			line("Operating Expenses", stmt.OperatingExpenses, null.Float{}),
			line("Operating Income", stmt.OperatingIncome, stmt.OperatingIncomeRatio),
			line("EBITDA", stmt.EBITDA, stmt.EBITDARatio),
			line("Income Before Tax", stmt.IncomeBeforeTax, stmt.IncomeBeforeTaxRatio),
			line("Income Tax Expense", stmt.IncomeTaxExpense, null.Float{}),
			line("Net Income", stmt.NetIncome, stmt.NetIncomeRatio),
		},
		EPS:           stmt.EPS,
		EPSDiluted:    stmt.EPSDiluted,
		Shares:        stmt.SharesOutstanding,
		SharesDiluted: stmt.SharesOutstandingDil,
	}
}

// BreakdownStatements returns breakdowns for every statement, most recent first
func BreakdownStatements(statements []models.IncomeStatementRecord) []models.StatementBreakdown {
	sorted := SortStatementsDesc(statements)
	out := make([]models.StatementBreakdown, len(sorted))
	for i, stmt := range sorted {
		out[i] = BreakdownStatement(stmt)
	}
	return out
}

// SortStatementsDesc returns a copy ordered most recent first.
// Unparseable dates sort last; equal dates keep input order.
func SortStatementsDesc(statements []models.IncomeStatementRecord) []models.IncomeStatementRecord {
	out := make([]models.IncomeStatementRecord, len(statements))
	copy(out, statements)
	sort.SliceStable(out, func(a, b int) bool {
		return dateAfter(out[a].Date, out[b].Date)
	})
	return out
}

// MarketCapHistory returns a copy of the snapshots ordered most recent first
func MarketCapHistory(marketCaps []models.MarketCapSnapshot) []models.MarketCapSnapshot {
	out := make([]models.MarketCapSnapshot, len(marketCaps))
	copy(out, marketCaps)
	sort.SliceStable(out, func(a, b int) bool {
		return dateAfter(out[a].Date, out[b].Date)
	})
	return out
}

func dateAfter(a, b string) bool {
	ta, okA := format.ParseDate(a)
	tb, okB := format.ParseDate(b)
	switch {
	case okA && okB:
		return ta.After(tb)
	case okA:
		return true
	default:
		return false
	}
}

func ratioOf(value, revenue null.Float) null.Float {
	if !value.Valid || !revenue.Valid || revenue.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(value.Float64 / revenue.Float64)
}
