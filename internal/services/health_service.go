package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"globecli/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	cfg       config.GloBEConfig
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Rules     map[string]interface{} `json:"rules,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, cfg config.GloBEConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		cfg:       cfg,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check returns the current health status. The service is degraded when the
// rule configuration is unusable, since every calculation depends on it.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := "healthy"
	if !s.cfg.IsValid() {
		status = "degraded"
		s.logger.WarnContext(ctx, "rule configuration failed validation")
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
		Rules: map[string]interface{}{
			"minimum_etr":        s.cfg.MinimumETR,
			"low_risk_etr":       s.cfg.LowRiskETR,
			"de_minimis_revenue": s.cfg.DeMinimisRevenue,
			"implementing_count": len(s.cfg.Jurisdictions.Implementing),
		},
	}
}
