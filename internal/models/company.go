package models

import "github.com/guregu/null/v6"

// Company is a listed company as returned by the directory endpoints
type Company struct {
	Name         string             `json:"name"`
	Ticker       string             `json:"ticker"`
	Focus        string             `json:"focus,omitempty"`
	Financials   *CompanyFinancials `json:"financials,omitempty"`
	CategoryName string             `json:"categoryName,omitempty"` // set when flattened out of a region category
}

// CompanyFinancials is the headline snapshot embedded in directory listings
type CompanyFinancials struct {
	Year                           CalendarYear `json:"year"`
	MarketCap                      null.Float   `json:"marketCap"`
	Revenue                        null.Float   `json:"revenue"`
	GrossProfit                    null.Float   `json:"grossProfit"`
	NetIncome                      null.Float   `json:"netIncome"`
	MarketCapToRevenueMultiple     null.Float   `json:"marketCapToRevenueMultiple"`
	MarketCapToGrossProfitMultiple null.Float   `json:"marketCapToGrossProfitMultiple"`
	MarketCapToNetIncomeMultiple   null.Float   `json:"marketCapToNetIncomeMultiple"`
}

// Category groups companies within a region or country
type Category struct {
	Name      string    `json:"name"`
	Companies []Company `json:"companies"`
}

// Region is either categorised (Categories set) or flat (Companies set)
type Region struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories,omitempty"`
	Companies  []Company  `json:"companies,omitempty"`
}

// CompaniesResponse is the body of the /companies endpoints.
// Companies is a pointer so that a missing key can be told apart from an empty list.
type CompaniesResponse struct {
	Companies *[]Company `json:"companies"`
}
