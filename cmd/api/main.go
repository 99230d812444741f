package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/wordlens/internal/app"
)

func main() {
	cfg, err := app.Bootstrap(os.Stdout)
	if err != nil {
		slog.Error("[Main] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	a.StartMonitor(ctx)

	if err := a.Serve(ctx); err != nil {
		slog.Error("[Main] Server failed", slog.String("error", err.Error()))
		a.Close()
		os.Exit(1)
	}
}
