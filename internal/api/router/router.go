package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/batebc/backend-challenge/internal/http/handlers"
	httpmiddleware "github.com/batebc/backend-challenge/internal/http/middleware"
	"github.com/batebc/backend-challenge/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Appointments   *handlers.AppointmentsHandler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Appointments.HealthCheck)
	r.Post("/appointments", cfg.Appointments.Create)
	r.Get("/insured/{insuredId}/appointments", cfg.Appointments.ListByInsured)

	r.Get("/docs", handlers.SwaggerUI)
	r.Get("/docs/openapi.yaml", handlers.OpenAPISpec)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
