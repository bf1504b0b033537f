package companies

import (
	"fmt"
	"strings"

	"github.com/ternarybob/multiples/internal/format"
)

// ReportMarkdown renders company details as a markdown report
func ReportMarkdown(d *CompanyDetails) string {
	var b strings.Builder

	title := d.Name
	if title == "" {
		title = d.Ticker
	}
	fmt.Fprintf(&b, "# %s (%s)\n\n", escapeCell(title), d.Ticker)
	if d.Focus != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Focus)
	}
	if d.Exchange != "" {
		fmt.Fprintf(&b, "Exchange: %s\n\n", d.Exchange)
	}

	if len(d.Years) == 0 {
		b.WriteString("No financial data available.\n")
		return b.String()
	}

	s := d.SummaryDisplay
	fmt.Fprintf(&b, "## Key Financial Metrics (%s)\n\n", s.Year)
	b.WriteString("| Metric | Value | YoY |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Market Cap | %s | |\n", s.MarketCap)
	fmt.Fprintf(&b, "| Revenue | %s | %s |\n", s.Revenue, s.RevenueGrowth)
	fmt.Fprintf(&b, "| Gross Profit | %s | %s |\n", s.GrossProfit, s.GrossProfitGrowth)
	fmt.Fprintf(&b, "| Net Income | %s | %s |\n", s.NetIncome, s.NetIncomeGrowth)
	fmt.Fprintf(&b, "| EPS (diluted) | %s | |\n\n", s.EPS)

	b.WriteString("## Valuation Multiples\n\n")
	b.WriteString("| Multiple | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Market Cap / Revenue | %s |\n", s.RevenueMultiple)
	fmt.Fprintf(&b, "| Market Cap / Gross Profit | %s |\n", s.GrossProfitMultiple)
	fmt.Fprintf(&b, "| Market Cap / Net Income | %s |\n\n", s.NetIncomeMultiple)

	b.WriteString("## Historical Financial Data\n\n")
	b.WriteString("| Year | Revenue | Growth | Gross Profit | Growth | Net Income | Growth | EPS | Market Cap | P/S | P/GP | P/E |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|---|---|\n")
	for _, y := range d.YearRows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			y.Year, y.Revenue, y.RevenueGrowth, y.GrossProfit, y.GrossProfitGrowth,
			y.NetIncome, y.NetIncomeGrowth, y.EPS, y.MarketCap,
			y.RevenueMultiple, y.GrossProfitMultiple, y.NetIncomeMultiple)
	}
	b.WriteString("\n")

	if len(d.Statements) > 0 {
		latest := d.Statements[0]
		fmt.Fprintf(&b, "## Income Statement (%s)\n\n", latest.Year)
		b.WriteString("| Line Item | Amount | % of Revenue |\n|---|---|---|\n")
		for _, item := range latest.Items {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(item.Label), format.Millions(item.Value), format.Percentage(item.Ratio))
		}
		fmt.Fprintf(&b, "| Shares Outstanding (diluted) | %s | |\n\n", format.Shares(latest.SharesDiluted))
	}

	if len(d.MarketCapHistory) > 0 {
		b.WriteString("## Market Capitalization History\n\n")
		b.WriteString("| Date | Market Cap |\n|---|---|\n")
		for _, mc := range d.MarketCapHistory {
			fmt.Fprintf(&b, "| %s | %s |\n", mc.Date, mc.MarketCap)
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
