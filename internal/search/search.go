// Package search answers substring queries against the most recently
// analyzed text.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spacesedan/wordlens/internal/db"
)

type Outcome int

const (
	Found Outcome = iota
	NotFound
	NoRecord
	StorageError
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case NoRecord:
		return "no_record"
	case StorageError:
		return "storage_error"
	default:
		return "unknown"
	}
}

type Result struct {
	Term    string
	Outcome Outcome
	Err     error
}

// Found collapses the outcome to the boolean exposed to clients.
func (r Result) Found() bool {
	return r.Outcome == Found
}

type Service struct {
	store db.LastAnalysisStore
}

func NewService(store db.LastAnalysisStore) *Service {
	return &Service{store: store}
}

// Search reports whether term occurs in the stored text. Matching is exact and
// case sensitive; neither side is trimmed or normalised.
func (s *Service) Search(ctx context.Context, term string) Result {
	rec, err := s.store.Latest(ctx)
	if errors.Is(err, db.ErrNotFound) {
		return Result{Term: term, Outcome: NoRecord}
	}
	if err != nil {
		slog.Error("[Search] Failed to read last analysis",
			slog.String("term", term),
			slog.String("error", err.Error()))
		return Result{Term: term, Outcome: StorageError, Err: err}
	}

	if strings.Contains(rec.Text, term) {
		return Result{Term: term, Outcome: Found}
	}
	return Result{Term: term, Outcome: NotFound}
}
