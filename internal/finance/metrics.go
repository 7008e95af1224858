package finance

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	calcCounter  metric.Int64Counter
	errorCounter metric.Int64Counter
)

// InitMetrics registers the finance instruments. Call once at startup.
func InitMetrics() error {
	meter := otel.Meter("finance")

	var err error

	calcCounter, err = meter.Int64Counter("finance.calculations.total",
		metric.WithDescription("Total number of financial calculations performed"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculations counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("finance.errors.total",
		metric.WithDescription("Total number of rejected financial calculation requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
