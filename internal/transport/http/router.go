package http

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"globecli/internal/config"
	"globecli/internal/metrics"
	"globecli/internal/services"
)

// NewRouter assembles the full HTTP surface: the analysis API, health
// endpoints and the Prometheus scrape endpoint.
func NewRouter(cfg *config.Config, analysis AnalysisServiceInterface, health *services.HealthService, logger *slog.Logger) chi.Router {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout + 5*time.Second))
	if cfg.Limits.Enabled {
		r.Use(RateLimit(cfg.Limits.RPS, cfg.Limits.Burst))
	}

	analysisHandler := NewAnalysisHandler(analysis, m, cfg.Server.MaxUploadBytes, logger)
	healthHandler := NewHealthHandler(health, logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", analysisHandler.Routes())
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
