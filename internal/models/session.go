package models

import "time"

// SessionState is the top-level browsing selection of one client session.
// A state without a selected country is never persisted.
type SessionState struct {
	SessionID        string    `json:"sessionId" badgerhold:"key"`
	SelectedCountry  string    `json:"selectedCountry" validate:"required"`
	SelectedCategory string    `json:"selectedCategory"`
	ExchangeName     string    `json:"exchangeName"`
	Companies        []Company `json:"companies"`
	Revision         int64     `json:"revision"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SameSelection reports whether two states describe the same selection,
// ignoring bookkeeping fields (id, revision, timestamp)
func (s SessionState) SameSelection(other SessionState) bool {
	if s.SelectedCountry != other.SelectedCountry ||
		s.SelectedCategory != other.SelectedCategory ||
		s.ExchangeName != other.ExchangeName ||
		len(s.Companies) != len(other.Companies) {
		return false
	}
	for i := range s.Companies {
		if s.Companies[i].Ticker != other.Companies[i].Ticker ||
			s.Companies[i].Name != other.Companies[i].Name ||
			s.Companies[i].CategoryName != other.Companies[i].CategoryName {
			return false
		}
	}
	return true
}
