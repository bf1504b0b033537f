package interfaces

import (
	"context"

	"github.com/ternarybob/multiples/internal/models"
)

// AnalyticsSink receives user-interaction events from the view layer.
// Implementations must not block the caller and never fail the request.
type AnalyticsSink interface {
	Track(ctx context.Context, event models.AnalyticsEvent)
}
