// Package planner orchestrates geocoding, traffic-aware routing and forecasts
// into departure recommendations.
package planner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/routing"
	"github.com/departwise/departwise/internal/timewindow"
	"github.com/departwise/departwise/internal/weather"
)

const tracerName = "github.com/departwise/departwise/internal/planner"

// Defaults applied by NewService.
const (
	DefaultQueryTimeout      = 5 * time.Second
	DefaultMaxConcurrency    = 4
	DefaultVehicleEfficiency = 15.0
)

// Geocoder resolves place names.
type Geocoder interface {
	Resolve(ctx context.Context, placeName string) (geo.Coordinate, error)
}

// RouteSummarizer turns a raw route into a display summary.
type RouteSummarizer interface {
	Summarize(ctx context.Context, r routing.Route) routing.RouteSummary
}

// ForecastSummarizer reduces a forecast to the dominant condition over a window.
type ForecastSummarizer interface {
	Summarize(ctx context.Context, c geo.Coordinate, window timewindow.TimeWindow) (*weather.ForecastWindowSummary, error)
}

// ServiceConfig holds configuration for the planner service.
type ServiceConfig struct {
	// Geocoder resolves origin and destination names.
	Geocoder Geocoder

	// Routing is the traffic-aware routing provider.
	Routing routing.Provider

	// Summarizer builds route summaries.
	Summarizer RouteSummarizer

	// Weather summarizes destination forecasts.
	Weather ForecastSummarizer

	// Logger for planner operations.
	Logger zerolog.Logger

	// QueryTimeout bounds each per-hour routing query (default: 5 seconds).
	QueryTimeout time.Duration

	// RouteTimeout bounds single route lookups (default: 10 seconds).
	RouteTimeout time.Duration

	// MaxConcurrency caps in-flight routing queries per scan (default: 4).
	MaxConcurrency int

	// DefaultEfficiency is the vehicle efficiency in km per unit of fuel
	// used when a plan request gives none (default: 15.0).
	DefaultEfficiency float64

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Service answers route, departure, risk and weather questions.
type Service struct {
	geocoder          Geocoder
	routing           routing.Provider
	summarizer        RouteSummarizer
	weather           ForecastSummarizer
	logger            zerolog.Logger
	queryTimeout      time.Duration
	routeTimeout      time.Duration
	maxConcurrency    int
	defaultEfficiency float64
	now               func() time.Time
	tracer            trace.Tracer
}

// NewService creates a new planner service.
func NewService(cfg ServiceConfig) *Service {
	queryTimeout := cfg.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}

	routeTimeout := cfg.RouteTimeout
	if routeTimeout <= 0 {
		routeTimeout = 10 * time.Second
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	efficiency := cfg.DefaultEfficiency
	if efficiency <= 0 {
		efficiency = DefaultVehicleEfficiency
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		geocoder:          cfg.Geocoder,
		routing:           cfg.Routing,
		summarizer:        cfg.Summarizer,
		weather:           cfg.Weather,
		logger:            cfg.Logger,
		queryTimeout:      queryTimeout,
		routeTimeout:      routeTimeout,
		maxConcurrency:    maxConcurrency,
		defaultEfficiency: efficiency,
		now:               now,
		tracer:            otel.Tracer(tracerName),
	}
}

// RouteRequest asks for the route between two named places.
type RouteRequest struct {
	Origin      string
	Destination string
	// DepartAt requests predicted traffic at that instant (optional).
	DepartAt *time.Time
	// Alternative asks for one alternative route.
	Alternative bool
}

// RouteResult is the summarized primary route and optional alternative.
type RouteResult struct {
	Origin      geo.Coordinate
	Destination geo.Coordinate
	Primary     routing.RouteSummary
	Alternative *routing.RouteSummary
}

// Route geocodes both places and summarizes the traffic-aware route between them.
func (s *Service) Route(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	ctx, span := s.tracer.Start(ctx, "planner.Route",
		trace.WithAttributes(attribute.Bool("route.alternative", req.Alternative)))
	defer span.End()

	from, err := s.geocoder.Resolve(ctx, req.Origin)
	if err != nil {
		return nil, locationNotFound(req.Origin, err)
	}
	to, err := s.geocoder.Resolve(ctx, req.Destination)
	if err != nil {
		return nil, locationNotFound(req.Destination, err)
	}

	return s.routeBetween(ctx, from, to, req.DepartAt, req.Alternative)
}

func (s *Service) routeBetween(ctx context.Context, from, to geo.Coordinate, departAt *time.Time, alternative bool) (*RouteResult, error) {
	routeCtx, cancel := context.WithTimeout(ctx, s.routeTimeout)
	defer cancel()

	resp, err := s.routing.CalculateRoute(routeCtx, routing.DirectionsRequest{
		Origin:      from,
		Destination: to,
		DepartAt:    departAt,
		Traffic:     true,
		Alternative: alternative,
	})
	if err != nil {
		s.logger.Warn().Err(err).
			Str("provider", s.routing.Name()).
			Msg("route lookup failed")
		if errors.Is(err, routing.ErrNoRouteFound) {
			return nil, &Error{Kind: KindEmpty, Code: CodeNoRoute, Reason: ReasonNoRoute, Err: err}
		}
		return nil, providerUnavailable("Routing provider unavailable", err)
	}
	if len(resp.Routes) == 0 {
		return nil, &Error{Kind: KindEmpty, Code: CodeNoRoute, Reason: ReasonNoRoute, Err: routing.ErrNoRouteFound}
	}

	result := &RouteResult{
		Origin:      from,
		Destination: to,
		Primary:     s.summarizer.Summarize(ctx, resp.Routes[0]),
	}
	if alternative && len(resp.Routes) > 1 {
		alt := s.summarizer.Summarize(ctx, resp.Routes[1])
		result.Alternative = &alt
	}
	return result, nil
}

// resolvePair geocodes both endpoints. Both lookups are attempted before
// reporting failure.
func (s *Service) resolvePair(ctx context.Context, origin, destination string) (geo.Coordinate, geo.Coordinate, error) {
	from, errFrom := s.geocoder.Resolve(ctx, origin)
	to, errTo := s.geocoder.Resolve(ctx, destination)
	if err := errors.Join(errFrom, errTo); err != nil {
		return geo.Coordinate{}, geo.Coordinate{}, invalidLocations(err)
	}
	return from, to, nil
}
