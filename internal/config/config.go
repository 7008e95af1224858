package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"calc-api/internal/expression"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// PathEnv names the variable that selects the config file.
const PathEnv = "CALC_CONFIG"

// DefaultPath is read when PathEnv is unset. A missing file is not an error.
const DefaultPath = "config.yaml"

// Config is the service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Evaluator EvaluatorConfig `yaml:"evaluator"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type EvaluatorConfig struct {
	MaxExpressionLength int `yaml:"max_expression_length"`
	MaxDepth            int `yaml:"max_depth"`
	DefaultPrecision    int `yaml:"default_precision"`
}

type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name"`
	LogLevel       string `yaml:"log_level"`
	TracesEnabled  bool   `yaml:"traces_enabled"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	LogsEnabled    bool   `yaml:"logs_enabled"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "5s",
		},
		Evaluator: EvaluatorConfig{
			MaxExpressionLength: expression.DefaultMaxLength,
			MaxDepth:            expression.DefaultMaxDepth,
			DefaultPrecision:    expression.DefaultPrecision,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "calc-api",
			LogLevel:       "info",
			TracesEnabled:  true,
			MetricsEnabled: true,
			LogsEnabled:    true,
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path means PathEnv, then
// DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CALC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CALC_SHUTDOWN_TIMEOUT"); v != "" {
		c.Server.ShutdownTimeout = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("CALC_LOG_LEVEL"); v != "" {
		c.Telemetry.LogLevel = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"CALC_MAX_EXPRESSION_LENGTH", &c.Evaluator.MaxExpressionLength},
		{"CALC_MAX_DEPTH", &c.Evaluator.MaxDepth},
		{"CALC_DEFAULT_PRECISION", &c.Evaluator.DefaultPrecision},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", o.env, err)
		}
		*o.dst = n
	}

	bools := []struct {
		env string
		dst *bool
	}{
		{"CALC_TRACES_ENABLED", &c.Telemetry.TracesEnabled},
		{"CALC_METRICS_ENABLED", &c.Telemetry.MetricsEnabled},
		{"CALC_LOGS_ENABLED", &c.Telemetry.LogsEnabled},
	}
	for _, o := range bools {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", o.env, err)
		}
		*o.dst = b
	}

	return nil
}

// GetShutdownTimeout returns the graceful shutdown bound as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Limits returns the evaluator bounds.
func (c *Config) Limits() expression.Limits {
	return expression.Limits{
		MaxLength: c.Evaluator.MaxExpressionLength,
		MaxDepth:  c.Evaluator.MaxDepth,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil || d <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be a positive duration, got %q", c.Server.ShutdownTimeout)
	}
	if c.Evaluator.MaxExpressionLength < 1 {
		return fmt.Errorf("evaluator.max_expression_length must be positive, got %d", c.Evaluator.MaxExpressionLength)
	}
	if c.Evaluator.MaxDepth < 1 {
		return fmt.Errorf("evaluator.max_depth must be positive, got %d", c.Evaluator.MaxDepth)
	}
	if p := c.Evaluator.DefaultPrecision; p < expression.MinPrecision || p > expression.MaxPrecision {
		return fmt.Errorf("evaluator.default_precision must be between %d and %d, got %d",
			expression.MinPrecision, expression.MaxPrecision, p)
	}
	if c.Telemetry.ServiceName == "" {
		return errors.New("telemetry.service_name must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.Telemetry.LogLevel); err != nil {
		return fmt.Errorf("telemetry.log_level: %w", err)
	}
	return nil
}
