package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"calc-api/internal/calculator"
	"calc-api/internal/expression"
	"calc-api/internal/finance"
	"calc-api/internal/handlers"
	"calc-api/internal/observability"
)

// NewRouter wires the middleware chain and mounts every endpoint. The domain
// InitMetrics functions must have been called first.
func NewRouter(eval *expression.Evaluator, defaultPrecision int) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(observability.RecoverMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calculator.NewHandler(eval, defaultPrecision))
	finance.RegisterRoutes(r)

	return r
}
