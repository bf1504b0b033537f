// Package session manages the browsing selection of a client session as an
// explicit SessionState value kept in a caller-supplied store.
package session

import (
	"time"

	"github.com/ternarybob/multiples/internal/models"
)

// Reduce applies next on top of prev and reports whether anything changed.
// A state without a selected country is ignored, as is one with the same
// selection as prev. The returned state keeps prev's id and carries the next revision.
func Reduce(prev *models.SessionState, next models.SessionState, now time.Time) (models.SessionState, bool) {
	if next.SelectedCountry == "" {
		if prev == nil {
			return models.SessionState{}, false
		}
		return *prev, false
	}
	if prev != nil && prev.SameSelection(next) {
		return *prev, false
	}

	result := next
	result.Companies = append([]models.Company(nil), next.Companies...)
	result.UpdatedAt = now.UTC()
	result.Revision = 1
	if prev != nil {
		result.SessionID = prev.SessionID
		result.Revision = prev.Revision + 1
	}
	return result, true
}
