package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/multiples/internal/app"
	"github.com/ternarybob/multiples/internal/metrics"
	"github.com/ternarybob/multiples/internal/models"
	"github.com/ternarybob/multiples/internal/services/companies"
	"github.com/ternarybob/multiples/internal/worker"
)

// derivedOutput is what -derive prints
type derivedOutput struct {
	Summary models.SummaryMetrics      `json:"summary"`
	Years   []models.YearlyMetricsView `json:"years"`
}

// runDerive reads a financials document ({"income_statement": [...], "market_cap": [...]})
// and writes the derived yearly metrics as JSON
func runDerive(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc struct {
		IncomeStatement json.RawMessage `json:"income_statement"`
		MarketCap       json.RawMessage `json:"market_cap"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	statements, err := metrics.DecodeStatements(doc.IncomeStatement)
	if err != nil {
		return err
	}
	marketCaps, err := metrics.DecodeMarketCaps(doc.MarketCap)
	if err != nil {
		return err
	}

	out := derivedOutput{
		Summary: metrics.LatestPeriodSummary(statements, marketCaps),
		Years:   metrics.DeriveYearlyMetrics(statements, marketCaps),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runReport writes the report of each comma-separated ticker as markdown or PDF.
// A single ticker goes to outPath (stdout when empty for markdown); several
// tickers are written concurrently as <TICKER>-report.<ext> inside the outPath directory.
func runReport(ctx context.Context, application *app.App, tickerList, format, outPath string, workers int) error {
	ext, err := reportExtension(format)
	if err != nil {
		return err
	}

	var tickers []string
	for _, t := range strings.Split(tickerList, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no ticker given")
	}

	if len(tickers) == 1 {
		if ext == "pdf" && outPath == "" {
			return fmt.Errorf("-format pdf requires -out")
		}
		return writeReport(ctx, application, tickers[0], ext, outPath)
	}

	if outPath == "" {
		return fmt.Errorf("several tickers require -out to name a directory")
	}
	if err := os.MkdirAll(outPath, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}

	pool := worker.NewPool(worker.ExecutorFunc(func(ctx context.Context, ticker string) error {
		name := fmt.Sprintf("%s-report.%s", strings.ToUpper(ticker), ext)
		return writeReport(ctx, application, ticker, ext, filepath.Join(outPath, name))
	}), application.Logger, workers)

	failed := 0
	for _, r := range pool.Run(ctx, tickers) {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(tickers))
	}
	return nil
}

func reportExtension(format string) (string, error) {
	switch format {
	case "md", "markdown":
		return "md", nil
	case "pdf":
		return "pdf", nil
	default:
		return "", fmt.Errorf("unsupported report format: %s (md or pdf)", format)
	}
}

func writeReport(ctx context.Context, application *app.App, ticker, ext, outPath string) error {
	details, err := application.CompanyService.CompanyDetails(ctx, ticker, nil, "")
	if err != nil {
		return err
	}
	report := companies.ReportMarkdown(details)

	output := []byte(report)
	if ext == "pdf" {
		output, err = application.PDFService.ConvertMarkdownToPDF(report, details.Ticker+" financial report")
		if err != nil {
			return err
		}
		pages, err := application.PDFService.PageCount(output)
		if err != nil {
			return err
		}
		application.Logger.Info().Str("ticker", details.Ticker).Int("pages", pages).Msg("PDF report generated")
	}

	if outPath == "" {
		_, err = os.Stdout.Write(output)
		return err
	}
	if err := os.WriteFile(outPath, output, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}
