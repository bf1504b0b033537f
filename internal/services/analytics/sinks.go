// Package analytics provides AnalyticsSink implementations and the event
// constructors used by the view layer.
package analytics

import (
	"context"
	"sort"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/multiples/internal/interfaces"
	"github.com/ternarybob/multiples/internal/models"
)

// NoopSink discards every event. It is the default sink.
type NoopSink struct{}

// NewNoopSink creates a sink that discards events
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (NoopSink) Track(context.Context, models.AnalyticsEvent) {}

// LogSink writes events to the structured log
type LogSink struct {
	logger arbor.ILogger
}

// NewLogSink creates a sink that logs each event at info level
func NewLogSink(logger arbor.ILogger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Track(_ context.Context, event models.AnalyticsEvent) {
	keys := make([]string, 0, len(event.Properties))
	for k := range event.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	logEvent := s.logger.Info().Str("event", event.Name)
	for _, k := range keys {
		logEvent = logEvent.Str(k, event.Properties[k])
	}
	logEvent.Msg("Analytics event")
}

// NewSink returns the sink selected by name: "log" or anything else for no-op
func NewSink(name string, logger arbor.ILogger) interfaces.AnalyticsSink {
	if name == "log" && logger != nil {
		return NewLogSink(logger)
	}
	return NewNoopSink()
}
