// Package api exposes the analysis and search operations over HTTP.
package api

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/spacesedan/wordlens/config"
	"github.com/spacesedan/wordlens/internal/db"
	"github.com/spacesedan/wordlens/internal/metrics"
	"github.com/spacesedan/wordlens/internal/models"
	"github.com/spacesedan/wordlens/internal/search"
)

type AnalysisService interface {
	Analyze(ctx context.Context, text string) (models.AnalysisSummary, error)
}

type SearchService interface {
	Search(ctx context.Context, term string) search.Result
}

type Router struct {
	analysis     AnalysisService
	search       SearchService
	store        db.LastAnalysisStore
	modelHealthy *atomic.Bool
	metrics      *metrics.Collector
	cfg          config.HTTPConfig
	validate     *validator.Validate
}

// NewRouter wires the handlers. modelHealthy may be nil, in which case the
// model is always reported ready.
func NewRouter(
	analysis AnalysisService,
	search SearchService,
	store db.LastAnalysisStore,
	modelHealthy *atomic.Bool,
	m *metrics.Collector,
	cfg config.HTTPConfig,
) *Router {
	if m == nil {
		m = metrics.NewCollector()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &Router{
		analysis:     analysis,
		search:       search,
		store:        store,
		modelHealthy: modelHealthy,
		metrics:      m,
		cfg:          cfg,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Setup configures middleware and routes.
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger)
	router.Use(metricsMiddleware(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	router.Post("/analyze", rt.analyze)
	router.Get("/search", rt.searchQuery)
	router.Post("/search", rt.searchBody)

	return router
}
