// Package metrics derives the per-year financial view of a company from its
// raw income-statement and market-cap series.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"github.com/ternarybob/multiples/internal/format"
	"github.com/ternarybob/multiples/internal/models"
)

type datedStatement struct {
	record models.IncomeStatementRecord
	date   time.Time
}

type datedSnapshot struct {
	marketCap float64
	date      time.Time
}

// DeriveYearlyMetrics produces one YearlyMetricsView per income statement,
// most recent first. Growth is measured against the previous statement in
// date order; market cap is the snapshot nearest in calendar days, the
// earliest snapshot in input order winning ties.
//
// Statements without a usable date cannot be placed in time. They are kept
// at the oldest end, in input order, with null growth, market cap and
// multiples, and are never the prior year of a dated statement.
func DeriveYearlyMetrics(statements []models.IncomeStatementRecord, marketCaps []models.MarketCapSnapshot) []models.YearlyMetricsView {
	sorted, undated := sortStatements(statements)
	snapshots := usableSnapshots(marketCaps)

	ascending := make([]models.YearlyMetricsView, len(sorted))
	for i, current := range sorted {
		var prev *models.IncomeStatementRecord
		if i > 0 {
			prev = &sorted[i-1].record
		}
		ascending[i] = deriveOne(current, prev, snapshots)
	}

	// descending by date; equal dates keep their input order
	order := make([]int, len(sorted))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sorted[order[a]].date.After(sorted[order[b]].date)
	})

	views := make([]models.YearlyMetricsView, 0, len(statements))
	for _, idx := range order {
		views = append(views, ascending[idx])
	}
	for _, stmt := range undated {
		views = append(views, baseView(stmt))
	}
	return views
}

// Summarize returns the most recent year of views produced by DeriveYearlyMetrics,
// or the all-null summary when there are none.
func Summarize(views []models.YearlyMetricsView) models.SummaryMetrics {
	if len(views) == 0 {
		return models.SummaryMetrics{}
	}
	return views[0]
}

// LatestPeriodSummary returns the most recent fiscal year of DeriveYearlyMetrics,
// or the all-null summary when there are no statements.
func LatestPeriodSummary(statements []models.IncomeStatementRecord, marketCaps []models.MarketCapSnapshot) models.SummaryMetrics {
	return Summarize(DeriveYearlyMetrics(statements, marketCaps))
}

func baseView(stmt models.IncomeStatementRecord) models.YearlyMetricsView {
	view := models.YearlyMetricsView{
		Year:        stmt.CalendarYear,
		Date:        stmt.Date,
		Revenue:     stmt.Revenue,
		GrossProfit: stmt.GrossProfit,
		NetIncome:   stmt.NetIncome,
		EPS:         stmt.EPSDiluted,
	}
	if !view.EPS.Valid {
		view.EPS = stmt.EPS
	}
	return view
}

func deriveOne(current datedStatement, prev *models.IncomeStatementRecord, snapshots []datedSnapshot) models.YearlyMetricsView {
	stmt := current.record
	view := baseView(stmt)

	if prev != nil {
		view.RevenueGrowthPct = growth(stmt.Revenue, prev.Revenue)
		view.GrossProfitGrowthPct = growth(stmt.GrossProfit, prev.GrossProfit)
		view.NetIncomeGrowthPct = growth(stmt.NetIncome, prev.NetIncome)
	}

	view.MatchedMarketCap = nearestMarketCap(current.date, snapshots)
	view.MarketCapToRevenueMultiple = multiple(view.MatchedMarketCap, stmt.Revenue)
	view.MarketCapToGrossProfitMultiple = multiple(view.MatchedMarketCap, stmt.GrossProfit)
	view.MarketCapToNetIncomeMultiple = multiple(view.MatchedMarketCap, stmt.NetIncome)

	return view
}

// sortStatements returns a date-ascending copy of the dated statements, equal
// dates keeping input order, and the undated ones in input order
func sortStatements(statements []models.IncomeStatementRecord) ([]datedStatement, []models.IncomeStatementRecord) {
	sorted := make([]datedStatement, 0, len(statements))
	var undated []models.IncomeStatementRecord
	for _, stmt := range statements {
		date, ok := format.ParseDate(stmt.Date)
		if !ok {
			undated = append(undated, stmt)
			continue
		}
		sorted = append(sorted, datedStatement{record: stmt, date: date})
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].date.Before(sorted[b].date)
	})
	return sorted, undated
}

// usableSnapshots drops snapshots without a parseable date or a market cap, keeping input order
func usableSnapshots(marketCaps []models.MarketCapSnapshot) []datedSnapshot {
	snapshots := make([]datedSnapshot, 0, len(marketCaps))
	for _, mc := range marketCaps {
		if !mc.MarketCap.Valid {
			continue
		}
		date, ok := format.ParseDate(mc.Date)
		if !ok {
			continue
		}
		snapshots = append(snapshots, datedSnapshot{marketCap: mc.MarketCap.Float64, date: date})
	}
	return snapshots
}

func nearestMarketCap(target time.Time, snapshots []datedSnapshot) null.Float {
	best := -1
	bestDiff := int64(math.MaxInt64)
	for i, s := range snapshots {
		diff := calendarDays(target, s.date)
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 {
		return null.Float{}
	}
	return null.FloatFrom(snapshots[best].marketCap)
}

// calendarDays is the absolute number of calendar days between the dates of a and b
func calendarDays(a, b time.Time) int64 {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	days := int64(da.Sub(db).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// growth is (current - prev) / |prev| * 100; null without a usable prior value
func growth(current, prev null.Float) null.Float {
	if !current.Valid || !prev.Valid || prev.Float64 == 0 {
		return null.Float{}
	}
	return round2((current.Float64 - prev.Float64) / math.Abs(prev.Float64) * 100)
}

// multiple is marketCap / denominator; null when either side is missing or zero
func multiple(marketCap, denominator null.Float) null.Float {
	if !marketCap.Valid || !denominator.Valid || marketCap.Float64 == 0 || denominator.Float64 == 0 {
		return null.Float{}
	}
	return round2(marketCap.Float64 / denominator.Float64)
}

func round2(v float64) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return null.FloatFrom(rounded)
}
