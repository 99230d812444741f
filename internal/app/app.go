// Package app assembles the service from configuration. It is shared by the
// HTTP server, the Lambda handler and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spacesedan/wordlens/config"
	"github.com/spacesedan/wordlens/internal/analysis"
	"github.com/spacesedan/wordlens/internal/api"
	"github.com/spacesedan/wordlens/internal/clients"
	"github.com/spacesedan/wordlens/internal/db"
	"github.com/spacesedan/wordlens/internal/events"
	"github.com/spacesedan/wordlens/internal/logging"
	"github.com/spacesedan/wordlens/internal/metrics"
	"github.com/spacesedan/wordlens/internal/monitoring"
	"github.com/spacesedan/wordlens/internal/ranking"
	"github.com/spacesedan/wordlens/internal/search"
	"github.com/spacesedan/wordlens/internal/service"
)

const (
	kafkaInitAttempts = 3
	shutdownTimeout   = 30 * time.Second
)

type App struct {
	Config       config.Config
	Store        db.LastAnalysisStore
	Model        *analysis.OpenAIAnalyzer
	Publisher    events.Publisher
	Metrics      *metrics.Collector
	Analysis     *service.AnalysisService
	Search       *search.Service
	ModelHealthy *atomic.Bool
}

// New opens the store, the model client and, when configured, the Kafka
// producer. Callers must Close the returned App.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("[App] failed to open store: %w", err)
	}

	client, err := clients.NewOpenAIClient(cfg.OpenAI)
	if err != nil {
		if cerr := store.Close(); cerr != nil {
			slog.Error("[App] Failed to close store", slog.String("error", cerr.Error()))
		}
		return nil, err
	}
	model := analysis.NewOpenAIAnalyzer(client, analysis.Options{
		Model:      cfg.OpenAI.Model,
		MaxRetries: cfg.OpenAI.MaxRetries,
	})

	publisher := newPublisher(cfg.Kafka)
	m := metrics.NewCollector()

	healthy := &atomic.Bool{}
	healthy.Store(true)
	m.ModelHealthy.Set(1)

	return &App{
		Config:       cfg,
		Store:        store,
		Model:        model,
		Publisher:    publisher,
		Metrics:      m,
		Analysis:     service.NewAnalysisService(model, ranking.New(cfg.Ranking.Locale), store, publisher, m),
		Search:       search.NewService(store),
		ModelHealthy: healthy,
	}, nil
}

// newPublisher falls back to a no-op publisher when Kafka is not configured
// or cannot be reached; events are never required to serve a request.
func newPublisher(cfg config.KafkaConfig) events.Publisher {
	if !cfg.Enabled() {
		return events.NoopPublisher{}
	}
	for attempt := 1; attempt <= kafkaInitAttempts; attempt++ {
		p, err := events.NewKafkaPublisher(cfg)
		if err == nil {
			return p
		}
		slog.Warn("[App] Kafka init failed, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	slog.Error("[App] Kafka unavailable, analysis events disabled")
	return events.NoopPublisher{}
}

// Router builds the HTTP handler.
func (a *App) Router() *chi.Mux {
	return api.NewRouter(a.Analysis, a.Search, a.Store, a.ModelHealthy, a.Metrics, a.Config.HTTP).Setup()
}

// StartMonitor runs the model health check in the background until ctx ends.
func (a *App) StartMonitor(ctx context.Context) {
	go monitoring.MonitorModelHealth(ctx, a.Model, a.Config.Monitor.ModelHealthInterval, a.ModelHealthy, a.Metrics)
}

func (a *App) Close() {
	a.Publisher.Close()
	if err := a.Store.Close(); err != nil {
		slog.Error("[App] Failed to close store", slog.String("error", err.Error()))
	}
}

// Bootstrap loads the env file for APP_ENV, reads the configuration and
// points the default logger at logOut.
func Bootstrap(logOut io.Writer) (config.Config, error) {
	config.LoadEnv(config.AppEnv())
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logging.InitLoggerTo(logOut, cfg.LogLevel)
	return cfg, nil
}

// Serve runs the HTTP server on cfg.Port until ctx is cancelled, then shuts
// it down gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// The model call dominates; leave room for its retries.
		WriteTimeout: a.Config.OpenAI.Timeout*time.Duration(max(a.Config.OpenAI.MaxRetries, 1)) + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[App] Starting server",
			slog.String("address", srv.Addr),
			slog.String("environment", a.Config.Env),
			slog.String("store", a.Config.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[App] Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("[App] server shutdown: %w", err)
	}
	slog.Info("[App] Server stopped")
	return nil
}
