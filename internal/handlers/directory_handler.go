package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/multiples/internal/services/companies"
)

// DirectoryHandler serves the company directory: regions, countries,
// categories and company listings
type DirectoryHandler struct {
	companyService *companies.Service
	logger         arbor.ILogger
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(companyService *companies.Service, logger arbor.ILogger) *DirectoryHandler {
	return &DirectoryHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// RegionsHandler handles GET /api/regions
func (h *DirectoryHandler) RegionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	regions, err := h.companyService.Regions(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, regions)
}

// RegionCompaniesHandler handles GET /api/regions/{name}/companies?category=a&category=b
func (h *DirectoryHandler) RegionCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	rest := extractIDFromPath(r.URL.Path, "/api/regions/")
	name, ok := strings.CutSuffix(rest, "/companies")
	if !ok || name == "" {
		WriteError(w, http.StatusBadRequest, "Region name is required")
		return
	}
	name, err := url.PathUnescape(name)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid region name")
		return
	}

	view, err := h.companyService.RegionCompanies(r.Context(), name, r.URL.Query()["category"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// CountriesHandler handles GET /api/countries
func (h *DirectoryHandler) CountriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	countries, err := h.companyService.Countries(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if countries == nil {
		countries = []string{}
	}
	WriteJSON(w, http.StatusOK, countries)
}

// CategoriesHandler handles GET /api/categories
func (h *DirectoryHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	categories, err := h.companyService.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	WriteJSON(w, http.StatusOK, categories)
}

// CompaniesHandler handles GET /api/companies?country=&category=
func (h *DirectoryHandler) CompaniesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	dir, err := h.companyService.ListCompanies(r.Context(), query.Get("country"), query.Get("category"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, dir)
}
