package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DTLENS_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "merged_data.xlsx", cfg.Dataset.Path)
	assert.True(t, cfg.Limits.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dtlens.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9000\nlogging:\n  level: debug\n"), 0o644))

	t.Setenv("DTLENS_CONFIG", file)
	t.Setenv("DTLENS_SERVER_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DTLENS_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "DTLENS_SERVER_PORT", "0"},
		{"malformed timeout", "DTLENS_SERVER_READ_TIMEOUT", "soon"},
		{"non-positive rps", "DTLENS_LIMITS_RPS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
