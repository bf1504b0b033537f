package handlers

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/models"
	"github.com/ternarybob/multiples/internal/services/companies"
)

const companiesPrefix = "/api/companies/"

// CompanyHandler serves a single company's financials and reports
type CompanyHandler struct {
	companyService *companies.Service
	pdfService     interfaces.PDFService
	markdown       goldmark.Markdown
	logger         arbor.ILogger
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *companies.Service, pdfService interfaces.PDFService, logger arbor.ILogger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		pdfService:     pdfService,
		markdown:       goldmark.New(goldmark.WithExtensions(extension.Table)),
		logger:         logger,
	}
}

// DetailsHandler handles GET /api/companies/{ticker}.
// Optional query parameters name, focus and country describe the directory
// entry the request came from.
func (h *CompanyHandler) DetailsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	details, ok := h.loadDetails(w, r, extractIDFromPath(r.URL.Path, companiesPrefix))
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, details)
}

// ReportHandler handles GET /api/companies/{ticker}/report.{md,html,pdf}
func (h *CompanyHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rest := extractIDFromPath(r.URL.Path, companiesPrefix)
	ticker, reportFile, found := strings.Cut(rest, "/")
	if !found {
		WriteError(w, http.StatusNotFound, "Unknown report")
		return
	}

	var kind string
	switch reportFile {
	case "report.md":
		kind = "md"
	case "report.html":
		kind = "html"
	case "report.pdf":
		kind = "pdf"
	default:
		WriteError(w, http.StatusNotFound, "Unknown report format")
		return
	}

	details, ok := h.loadDetails(w, r, ticker)
	if !ok {
		return
	}
	report := companies.ReportMarkdown(details)

	switch kind {
	case "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(report))
	case "html":
		h.writeHTML(w, r, details, report)
	case "pdf":
		h.writePDF(w, r, details, report)
	}
}

func (h *CompanyHandler) loadDetails(w http.ResponseWriter, r *http.Request, ticker string) (*companies.CompanyDetails, bool) {
	query := r.URL.Query()

	var known *models.Company
	if name := query.Get("name"); name != "" {
		known = &models.Company{Name: name, Focus: query.Get("focus")}
	}
	exchange := ""
	if country := query.Get("country"); country != "" {
		exchange = companies.ExchangeName(country)
	}

	details, err := h.companyService.CompanyDetails(r.Context(), ticker, known, exchange)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return nil, false
	}
	return details, true
}

func (h *CompanyHandler) writeHTML(w http.ResponseWriter, r *http.Request, details *companies.CompanyDetails, report string) {
	var body bytes.Buffer
	if err := h.markdown.Convert([]byte(report), &body); err != nil {
		writeServiceError(w, r, h.logger, fmt.Errorf("failed to render report: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n%s</body></html>\n",
		html.EscapeString(reportTitle(details)), body.String())
}

func (h *CompanyHandler) writePDF(w http.ResponseWriter, r *http.Request, details *companies.CompanyDetails, report string) {
	data, err := h.pdfService.ConvertMarkdownToPDF(report, reportTitle(details))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	if pages, err := h.pdfService.PageCount(data); err != nil {
		h.logger.Warn().Err(err).Str("ticker", details.Ticker).Msg("Generated PDF could not be read back")
	} else {
		h.logger.Debug().Str("ticker", details.Ticker).Int("pages", pages).Msg("PDF report generated")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", details.Ticker+"-report.pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func reportTitle(details *companies.CompanyDetails) string {
	if details.Name == "" {
		return details.Ticker + " financial report"
	}
	return fmt.Sprintf("%s (%s) financial report", details.Name, details.Ticker)
}
