// Package events publishes notifications about completed analyses.
package events

import (
	"context"

	"github.com/spacesedan/wordlens/internal/models"
)

type Publisher interface {
	PublishAnalysisCompleted(ctx context.Context, event models.AnalysisCompletedEvent) error
	Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishAnalysisCompleted(context.Context, models.AnalysisCompletedEvent) error {
	return nil
}

func (NoopPublisher) Close() {}
