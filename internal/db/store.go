// Package db holds the single-row store of the most recently analyzed text.
package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/wordlens/internal/models"
)

// ErrNotFound is returned by Latest when nothing has been saved yet.
var ErrNotFound = errors.New("no analysis stored")

// LastAnalysisStore keeps at most one record. Save replaces whatever was
// there as a single atomic step, so a reader sees either the old record or
// the new one.
type LastAnalysisStore interface {
	Save(ctx context.Context, text string) (models.LastAnalysis, error)
	Latest(ctx context.Context) (models.LastAnalysis, error)
	Reset(ctx context.Context) error
	Close() error
}

func newRecord(text string) models.LastAnalysis {
	return models.LastAnalysis{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
