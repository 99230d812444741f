// Package service wires the model, the ranker and the store into the
// analysis use case.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/wordlens/internal/analysis"
	"github.com/spacesedan/wordlens/internal/db"
	"github.com/spacesedan/wordlens/internal/events"
	"github.com/spacesedan/wordlens/internal/metrics"
	"github.com/spacesedan/wordlens/internal/models"
	"github.com/spacesedan/wordlens/internal/ranking"
)

var (
	// ErrEmptyText is returned for input that is empty after trimming.
	ErrEmptyText = errors.New("text is required")
	// ErrAnalysisFailed wraps any failure of the language model.
	ErrAnalysisFailed = errors.New("failed to analyze text")
)

type AnalysisService struct {
	analyzer  analysis.Analyzer
	ranker    ranking.Ranker
	store     db.LastAnalysisStore
	publisher events.Publisher
	metrics   *metrics.Collector
}

func NewAnalysisService(
	analyzer analysis.Analyzer,
	ranker ranking.Ranker,
	store db.LastAnalysisStore,
	publisher events.Publisher,
	m *metrics.Collector,
) *AnalysisService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if m == nil {
		m = metrics.NewCollector()
	}
	return &AnalysisService{
		analyzer:  analyzer,
		ranker:    ranker,
		store:     store,
		publisher: publisher,
		metrics:   m,
	}
}

// Analyze runs the model on text, ranks the words it reports and remembers
// text as the last analysis. Failing to persist or publish is logged but does
// not fail the call.
func (s *AnalysisService) Analyze(ctx context.Context, text string) (models.AnalysisSummary, error) {
	if strings.TrimSpace(text) == "" {
		s.metrics.Analyses.WithLabelValues("rejected").Inc()
		return models.AnalysisSummary{}, ErrEmptyText
	}

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, text)
	s.metrics.ModelDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Analyses.WithLabelValues("model_error").Inc()
		slog.Error("[AnalysisService] Model analysis failed",
			slog.Int("text_length", len(text)),
			slog.String("error", err.Error()))
		return models.AnalysisSummary{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	ranked := s.ranker.Rank(result.Words)
	summary := models.AnalysisSummary{
		Idiom:        result.Idiom,
		Sentiment:    analysis.NormalizeSentiment(result.Sentiment),
		TotalWords:   ranked.TotalWords,
		TopWords:     ranked.TopWords,
		NonStopwords: ranked.NonStopwords,
		Stopwords:    ranked.Stopwords,
	}

	// The client may hang up once it has its answer; the save must still land.
	persistCtx := context.WithoutCancel(ctx)
	rec, err := s.store.Save(persistCtx, text)
	if err != nil {
		s.metrics.PersistenceFailures.Inc()
		slog.Error("[AnalysisService] Failed to persist last analysis; searches will use stale data",
			slog.String("error", err.Error()))
	} else {
		s.publish(persistCtx, rec, summary)
	}

	s.metrics.Analyses.WithLabelValues("ok").Inc()
	slog.Info("[AnalysisService] Analysis completed",
		slog.String("idiom", summary.Idiom),
		slog.String("sentiment", summary.Sentiment),
		slog.Int("total_words", summary.TotalWords),
		slog.Duration("elapsed", time.Since(start)))

	return summary, nil
}

func (s *AnalysisService) publish(ctx context.Context, rec models.LastAnalysis, summary models.AnalysisSummary) {
	event := models.AnalysisCompletedEvent{
		AnalysisID: rec.ID,
		Idiom:      summary.Idiom,
		Sentiment:  summary.Sentiment,
		TotalWords: summary.TotalWords,
		TopWords:   summary.TopWords,
		CreatedAt:  rec.CreatedAt,
	}
	if err := s.publisher.PublishAnalysisCompleted(ctx, event); err != nil {
		slog.Warn("[AnalysisService] Failed to publish analysis event",
			slog.String("analysis_id", rec.ID),
			slog.String("error", err.Error()))
	}
}
