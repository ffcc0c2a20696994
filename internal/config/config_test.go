package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointLoadAt makes Load read its config file from an isolated directory so
// a stray config.yaml in the working directory cannot leak into tests.
func pointLoadAt(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	t.Setenv("GLOBE_CONFIG_FILE", path)
}

func TestLoadDefaults(t *testing.T) {
	pointLoadAt(t, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Limits.Enabled)
	assert.Equal(t, 15.0, cfg.GloBE.MinimumETR)
	assert.Equal(t, 18.0, cfg.GloBE.LowRiskETR)
	assert.Equal(t, 75_000_000.0, cfg.GloBE.DeMinimisRevenue)
	assert.Contains(t, cfg.GloBE.Jurisdictions.Implementing, "UK")
}

func TestLoadFromFile(t *testing.T) {
	pointLoadAt(t, `
server:
  port: 9090
logging:
  level: debug
globe:
  minimum_etr: 15.0
  low_risk_etr: 20.0
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 20.0, cfg.GloBE.LowRiskETR)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	pointLoadAt(t, "server:\n  port: 9090\n")
	t.Setenv("GLOBE_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  port: 0\n"},
		{"bad log level", "logging:\n  level: verbose\n"},
		{"bad globe rules", "globe:\n  minimum_etr: 15.0\n  low_risk_etr: 10.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pointLoadAt(t, tt.yaml)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGloBEConfigIsValid(t *testing.T) {
	assert.True(t, DefaultGloBE().IsValid())

	bad := DefaultGloBE()
	bad.LowRiskETR = 10.0
	assert.False(t, bad.IsValid())

	bad = DefaultGloBE()
	bad.MinimumETR = 0
	assert.False(t, bad.IsValid())
}

func TestImplementationStatus(t *testing.T) {
	cfg := DefaultGloBE()

	assert.True(t, cfg.IsImplementing("UK"))
	assert.False(t, cfg.IsImplementing("United States"))

	assert.Equal(t, "implementing", cfg.ImplementationStatus("Japan"))
	assert.Equal(t, "considering", cfg.ImplementationStatus("India"))
	assert.Equal(t, "not_implementing", cfg.ImplementationStatus("Russia"))
	assert.Equal(t, "not_implementing", cfg.ImplementationStatus("Atlantis"))
}
