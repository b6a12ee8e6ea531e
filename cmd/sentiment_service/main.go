package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reviewsentiment/config"
	"github.com/spacesedan/reviewsentiment/internal/logging"
	"github.com/spacesedan/reviewsentiment/internal/metrics"
	"github.com/spacesedan/reviewsentiment/internal/sentiment"
	"github.com/spacesedan/reviewsentiment/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	scorer, healthChecks := buildScorer(cfg)
	srv := server.NewServer(cfg.Port, scorer, metrics.NewRegistry(), healthChecks)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slog.Info("[Main] Server exited")
}

func buildScorer(cfg *config.Config) (sentiment.Scorer, []server.HealthCheck) {
	switch cfg.SentimentBackend {
	case config.BACKEND_REMOTE:
		remote := sentiment.NewRemoteScorer(cfg.SentimentServiceURL, cfg.SentimentServiceTimeout)
		return remote, []server.HealthCheck{{Name: "sentiment_service", Check: remote.Ping}}
	default:
		slog.Info("[Main] Using VADER sentiment scorer",
			slog.Bool("strip_markdown", cfg.StripMarkdown))
		return sentiment.NewVaderScorer(cfg.StripMarkdown), nil
	}
}
