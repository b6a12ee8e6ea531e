package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spacesedan/reviewsentiment/internal/metrics"
	"github.com/spacesedan/reviewsentiment/internal/sentiment"
)

type Server struct {
	echo *echo.Echo
	port string

	scorer   sentiment.Scorer
	registry *prometheus.Registry
	http     *metrics.HTTPMetrics
	analysis *metrics.AnalysisMetrics

	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(port string, scorer sentiment.Scorer, registry *prometheus.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		port:         port,
		scorer:       scorer,
		registry:     registry,
		http:         metrics.NewHTTPMetrics(registry),
		analysis:     metrics.NewAnalysisMetrics(registry),
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("port", s.port))
	if err := s.echo.Start(":" + s.port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("[Server] Shutting down server")
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
