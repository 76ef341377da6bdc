// Package http assembles the HTTP surface of the analysis API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemRisk-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil optional fields disable the corresponding feature.
type RouterConfig struct {
	AnalysisHandler  *handlers.AnalysisHandler
	SubstanceHandler *handlers.SubstanceHandler
	HealthHandler    *handlers.HealthHandler

	RateLimiter    middleware.RateLimiter
	MetricsHandler http.Handler
	AppMetrics     *prometheus.AppMetrics

	CORS   *middleware.CORSConfig
	Logger logging.Logger
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}
	r.Use(middleware.CORS(corsCfg))

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.AppMetrics != nil {
		r.Use(middleware.HTTPMetrics(cfg.AppMetrics))
	}

	// Probes and metrics stay outside the rate limit.
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(middleware.RateLimit(cfg.RateLimiter))
		}

		if cfg.AnalysisHandler != nil {
			api.Post("/analyses", cfg.AnalysisHandler.Analyze)
		}
		if cfg.SubstanceHandler != nil {
			api.Get("/substances", cfg.SubstanceHandler.List)
			api.Get("/substances/{token}", cfg.SubstanceHandler.Resolve)
		}
	})

	return r
}
