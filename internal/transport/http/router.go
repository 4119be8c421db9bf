package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"prgcli/internal/config"
	apierrors "prgcli/internal/errors"
	"prgcli/internal/middleware"
	"prgcli/internal/services"
)

// NewRouter assembles the full HTTP surface with the standard middleware
// chain. metricsHandler may be nil when metrics are disabled.
func NewRouter(cfg *config.Config, logger *slog.Logger, service AnalysisServiceInterface, metricsHandler http.Handler) chi.Router {
	errorHandler := apierrors.NewErrorHandler(logger, false)
	analysis := NewAnalysisHandler(service, services.OptionsFromConfig(cfg.Analysis), logger, errorHandler)
	health := NewHealthHandler()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/analysis", analysis.Routes())
		r.Get("/leagues", analysis.GetLeagues)
	})

	r.Get("/healthz", health.Health)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	return r
}
