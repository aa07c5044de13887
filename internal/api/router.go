package api

import (
	"context"
	"net/http"

	"geo-calculator-service/internal/api/handlers"
	"geo-calculator-service/internal/platform/obs"

	"github.com/go-chi/chi/v5"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// metrics and healthCheck may be nil.
func NewRouter(calc handlers.Calculator, metrics *obs.Metrics, healthCheck func(ctx context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware, metricsMiddleware(metrics), loggingMiddleware)

	calcHandler := &handlers.CalculateHandler{Calc: calc}
	healthHandler := &handlers.HealthHandler{Check: healthCheck}

	r.Get("/health", healthHandler.Health)
	r.Post("/calculate", calcHandler.Calculate)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r
}
