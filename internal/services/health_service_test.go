package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"globecli/internal/config"
)

func TestHealthCheck(t *testing.T) {
	svc := NewHealthService("1.2.3", config.DefaultGloBE(), nil)

	status := svc.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, 15.0, status.Rules["minimum_etr"])
	assert.NotEmpty(t, status.Uptime)
}

func TestHealthCheckDegradedOnBadRules(t *testing.T) {
	bad := config.DefaultGloBE()
	bad.MinimumETR = 0
	svc := NewHealthService("1.2.3", bad, nil)

	status := svc.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
}
