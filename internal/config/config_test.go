package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"calc-api/internal/expression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, expression.DefaultLimits(), cfg.Limits())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 30s
evaluator:
  max_depth: 16
  default_precision: 6
telemetry:
  service_name: calc-staging
  traces_enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, 16, cfg.Evaluator.MaxDepth)
	assert.Equal(t, expression.DefaultMaxLength, cfg.Evaluator.MaxExpressionLength)
	assert.Equal(t, 6, cfg.Evaluator.DefaultPrecision)
	assert.Equal(t, "calc-staging", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.Telemetry.TracesEnabled)
	assert.True(t, cfg.Telemetry.MetricsEnabled)
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":7070\"\n")
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\nevaluator:\n  max_depth: 16\n")
	t.Setenv("CALC_ADDR", ":6060")
	t.Setenv("CALC_MAX_DEPTH", "32")
	t.Setenv("CALC_MAX_EXPRESSION_LENGTH", "200")
	t.Setenv("CALC_DEFAULT_PRECISION", "12")
	t.Setenv("CALC_SHUTDOWN_TIMEOUT", "1s")
	t.Setenv("OTEL_SERVICE_NAME", "calc-env")
	t.Setenv("CALC_LOG_LEVEL", "debug")
	t.Setenv("CALC_METRICS_ENABLED", "false")
	t.Setenv("CALC_LOGS_ENABLED", "0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":6060", cfg.Server.Addr)
	assert.Equal(t, time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, expression.Limits{MaxLength: 200, MaxDepth: 32}, cfg.Limits())
	assert.Equal(t, 12, cfg.Evaluator.DefaultPrecision)
	assert.Equal(t, "calc-env", cfg.Telemetry.ServiceName)
	assert.Equal(t, "debug", cfg.Telemetry.LogLevel)
	assert.False(t, cfg.Telemetry.MetricsEnabled)
	assert.False(t, cfg.Telemetry.LogsEnabled)
	assert.True(t, cfg.Telemetry.TracesEnabled)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		msg  string
	}{
		{name: "malformed yaml", file: "server: [", msg: "parse config"},
		{name: "bad int env", env: map[string]string{"CALC_MAX_DEPTH": "deep"}, msg: "CALC_MAX_DEPTH"},
		{name: "bad bool env", env: map[string]string{"CALC_TRACES_ENABLED": "maybe"}, msg: "CALC_TRACES_ENABLED"},
		{name: "precision out of range", file: "evaluator:\n  default_precision: 101\n", msg: "default_precision"},
		{name: "zero depth", env: map[string]string{"CALC_MAX_DEPTH": "0"}, msg: "max_depth"},
		{name: "bad timeout", file: "server:\n  shutdown_timeout: soon\n", msg: "shutdown_timeout"},
		{name: "bad log level", env: map[string]string{"CALC_LOG_LEVEL": "loud"}, msg: "log_level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if tc.file != "" {
				path = writeConfig(t, tc.file)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, expression.DefaultLimits(), cfg.Limits())
}
