// Package api provides the HTTP API for RoamCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/roamcast/roamcast/internal/api/handler"
	"github.com/roamcast/roamcast/internal/api/middleware"
	"github.com/roamcast/roamcast/internal/monitor"
	"github.com/roamcast/roamcast/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Registry    *monitor.Registry
	Trips       trip.Repository
	ReadyChecks []handler.ReadyCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "roamcast-monitord"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.ReadyChecks)
	tripHandler := handler.NewTripHandler(cfg.Registry, cfg.Trips)

	// Checks and sweeps hit the weather provider; everything else is cheap.
	expensiveRateLimit := middleware.RateLimitByTrip(middleware.ExpensiveRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", tripHandler.ListTrips)
			r.Post("/", tripHandler.CreateTrip)

			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripHandler.GetState)
				r.Delete("/", tripHandler.DeleteTrip)
				r.Post("/start", tripHandler.StartMonitoring)
				r.Post("/stop", tripHandler.StopMonitoring)
				r.Patch("/config", tripHandler.UpdateConfig)
				r.Get("/viability", tripHandler.GetViability)
				r.Get("/metrics", tripHandler.GetMetrics)
				r.Delete("/alerts/{alertId}", tripHandler.DismissAlert)

				r.With(expensiveRateLimit).Post("/check", tripHandler.Check)
				r.With(expensiveRateLimit).Get("/sweep", tripHandler.Sweep)
			})
		})
	})

	return r
}
