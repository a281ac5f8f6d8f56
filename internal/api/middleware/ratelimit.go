package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	RequestLimit int
	WindowLength time.Duration
}

var (
	// PlanningRateLimit applies to endpoints that fan out to many routing
	// queries per request (30 req/min).
	PlanningRateLimit = RateLimitConfig{
		RequestLimit: 30,
		WindowLength: time.Minute,
	}

	// LookupRateLimit applies to single-call endpoints such as geocoding (100 req/min).
	LookupRateLimit = RateLimitConfig{
		RequestLimit: 100,
		WindowLength: time.Minute,
	}
)

// RateLimitByIP limits requests per client IP and hands rejected requests to
// onLimit. Run chi's RealIP middleware first so proxied requests are keyed correctly.
func RateLimitByIP(cfg RateLimitConfig, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	opts := []httprate.Option{httprate.WithKeyFuncs(httprate.KeyByRealIP)}
	if onLimit != nil {
		opts = append(opts, httprate.WithLimitHandler(onLimit))
	}
	return httprate.Limit(cfg.RequestLimit, cfg.WindowLength, opts...)
}
