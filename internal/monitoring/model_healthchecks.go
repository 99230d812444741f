// Package monitoring keeps the readiness flags of remote dependencies fresh.
package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/wordlens/internal/metrics"
)

const HEALTHCHECK_TIMER = 15 * time.Second

const pingTimeout = 5 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// MonitorModelHealth pings the model once right away and then every interval,
// storing the result in healthy until ctx is cancelled. m may be nil.
func MonitorModelHealth(ctx context.Context, model Pinger, interval time.Duration, healthy *atomic.Bool, m *metrics.Collector) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		err := model.Ping(pingCtx)
		isHealthy := err == nil
		if m != nil {
			if isHealthy {
				m.ModelHealthy.Set(1)
			} else {
				m.ModelHealthy.Set(0)
			}
		}
		wasHealthy := healthy.Swap(isHealthy)

		switch {
		case !isHealthy && ctx.Err() == nil:
			slog.Warn("[HealthCheck] Language model is unhealthy", slog.String("error", err.Error()))
		case isHealthy && !wasHealthy:
			slog.Info("[HealthCheck] Language model is healthy")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
