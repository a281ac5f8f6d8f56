// Package api provides the HTTP API for departwise.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/departwise/departwise/internal/api/handler"
	"github.com/departwise/departwise/internal/api/middleware"
	"github.com/departwise/departwise/internal/api/response"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Planner   handler.Planner
	Geocoder  handler.Geocoder
	Providers handler.ProviderHealthSource
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "departwise-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "The requested resource does not exist")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r, "Method "+r.Method+" is not allowed on this resource")
	})

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Providers)
	planningHandler := handler.NewPlanningHandler(cfg.Planner, cfg.Logger)
	geoHandler := handler.NewGeoHandler(cfg.Geocoder)

	// Planning endpoints fan out to one routing query per hour.
	planningRateLimit := rateLimit(middleware.PlanningRateLimit) // 30 req/min
	lookupRateLimit := rateLimit(middleware.LookupRateLimit)     // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.With(lookupRateLimit).Post("/routes:compute", planningHandler.ComputeRoutes)
		r.With(lookupRateLimit).Post("/weather:window", planningHandler.WeatherWindow)

		r.Group(func(r chi.Router) {
			r.Use(planningRateLimit)
			r.Post("/departures:best", planningHandler.BestDeparture)
			r.Post("/plans:smart", planningHandler.SmartPlan)
			r.Post("/risk:curve", planningHandler.RiskCurve)
		})

		r.Route("/geo", func(r chi.Router) {
			r.Use(lookupRateLimit)
			r.Get("/search", geoHandler.Search)
			r.Get("/reverse", geoHandler.Reverse)
		})
	})

	return r
}

// rateLimit answers rejected requests with a 429 problem. The reset time comes
// from httprate's header when present, otherwise the full window is an upper bound.
func rateLimit(cfg middleware.RateLimitConfig) func(http.Handler) http.Handler {
	retryAfter := int(cfg.WindowLength.Seconds())

	return middleware.RateLimitByIP(cfg, func(w http.ResponseWriter, r *http.Request) {
		resetAt, err := strconv.ParseInt(w.Header().Get("X-RateLimit-Reset"), 10, 64)
		if err != nil {
			resetAt = time.Now().Add(cfg.WindowLength).Unix()
		}
		response.TooManyRequests(w, r, "Rate limit exceeded. Please try again later.", &response.RateLimitInfo{
			Limit:      cfg.RequestLimit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		})
	})
}
