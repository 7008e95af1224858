package main

import (
	"context"
	"errors"

	"calc-api/internal/calculator"
	"calc-api/internal/config"
	"calc-api/internal/finance"
	"calc-api/internal/observability"
)

// initTelemetry starts the enabled OTLP providers and registers the domain
// metric instruments. The returned shutdown flushes whatever was started and
// is safe to call even when err is non-nil.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	name := cfg.Telemetry.ServiceName

	if cfg.Telemetry.TracesEnabled {
		s, err := observability.InitTracing(ctx, name)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, s)
	}

	if cfg.Telemetry.LogsEnabled {
		s, err := observability.InitLogging(ctx, name)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, s)
	}

	if cfg.Telemetry.MetricsEnabled {
		s, err := observability.InitMetrics(ctx, name)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, s)
	}

	// Instruments bind to the global meter provider, so they come last.
	if err := calculator.InitMetrics(); err != nil {
		return shutdown, err
	}
	if err := finance.InitMetrics(); err != nil {
		return shutdown, err
	}

	return shutdown, nil
}
