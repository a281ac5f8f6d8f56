// Package routing provides traffic-aware route models and route summarization.
package routing

import (
	"context"
	"errors"
	"time"

	"github.com/departwise/departwise/internal/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down, timed out or answered badly.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates the provider answered but returned no usable route.
	ErrNoRouteFound = errors.New("no route found")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for traffic-aware routing providers.
type Provider interface {
	// CalculateRoute returns the primary route first, followed by any alternatives.
	CalculateRoute(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// DirectionsRequest is the request for computing routes.
type DirectionsRequest struct {
	Origin      geo.Coordinate
	Destination geo.Coordinate
	// DepartAt asks for predicted traffic at that instant. Nil means now.
	DepartAt *time.Time
	// Traffic enables live and predicted traffic in travel times.
	Traffic bool
	// Alternative asks for at most one alternative route.
	Alternative bool
}

// DirectionsResponse is the response containing the primary route and alternatives.
type DirectionsResponse struct {
	Routes    []Route
	Provider  string
	FetchedAt time.Time
}

// Route is one raw route as reported by the provider.
type Route struct {
	DistanceMeters             int
	TravelTimeSeconds          int // with traffic
	NoTrafficTravelTimeSeconds int // zero when the provider did not report it
	Points                     []geo.Coordinate
}

// DelayRatio returns travel time with traffic over travel time without it,
// or 1.0 when the traffic-free baseline is missing.
func (r Route) DelayRatio() float64 {
	if r.NoTrafficTravelTimeSeconds <= 0 {
		return 1.0
	}
	return float64(r.TravelTimeSeconds) / float64(r.NoTrafficTravelTimeSeconds)
}

// HasBaseline reports whether the provider returned a traffic-free travel time.
func (r Route) HasBaseline() bool {
	return r.NoTrafficTravelTimeSeconds > 0
}

// TrafficLevel classifies congestion from the delay ratio.
type TrafficLevel string

// Traffic levels.
const (
	TrafficLow    TrafficLevel = "Low"
	TrafficMedium TrafficLevel = "Medium"
	TrafficHigh   TrafficLevel = "High"
)

var trafficReasons = map[TrafficLevel]string{
	TrafficLow:    "Traffic is flowing smoothly with minimal delays.",
	TrafficMedium: "Moderate traffic detected, possibly due to regular urban flow or minor bottlenecks.",
	TrafficHigh:   "Heavy congestion detected. High volume of vehicles or potential road incidents in this time window.",
}

// Reason returns the user-facing explanation for the level.
func (l TrafficLevel) Reason() string {
	return trafficReasons[l]
}

// RouteSummary is the normalized, display-ready view of a route.
type RouteSummary struct {
	DistanceKm        float64
	DurationFormatted string
	AvgSpeedKmh       float64
	TrafficLevel      TrafficLevel
	Reason            string
	ViaPoint          string
	DelayRatio        float64
	// Geometry is the encoded polyline (precision 5) of the route points.
	Geometry string
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
