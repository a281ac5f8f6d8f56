package routing

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/pkg/polyline"
)

// Via point labels used when no locality name is available.
const (
	// ViaPointUnset is used for routes too short to have a midpoint.
	ViaPointUnset = "N/A"
	// ViaPointFallback is used when the midpoint could not be named.
	ViaPointFallback = "Main Highway"
)

// Classification thresholds on the delay ratio.
const (
	mediumThreshold = 1.10
	highThreshold   = 1.40
)

// ViaResolver names the locality at a coordinate.
type ViaResolver interface {
	ReverseResolve(ctx context.Context, c geo.Coordinate) (string, bool)
}

// SummarizerConfig holds configuration for the summarizer.
type SummarizerConfig struct {
	// Via names the route midpoint. If nil the fallback label is used.
	Via ViaResolver

	// Logger for summarizer operations.
	Logger zerolog.Logger
}

// Summarizer turns raw provider routes into RouteSummary values.
type Summarizer struct {
	via    ViaResolver
	logger zerolog.Logger
}

// NewSummarizer creates a new summarizer.
func NewSummarizer(cfg SummarizerConfig) *Summarizer {
	return &Summarizer{
		via:    cfg.Via,
		logger: cfg.Logger,
	}
}

// Summarize derives the summary for a single route. It never fails: a via
// point that cannot be named falls back to ViaPointFallback.
func (s *Summarizer) Summarize(ctx context.Context, r Route) RouteSummary {
	ratio := r.DelayRatio()
	level := Classify(ratio)

	return RouteSummary{
		DistanceKm:        round1(float64(r.DistanceMeters) / 1000),
		DurationFormatted: FormatDuration(r.TravelTimeSeconds),
		AvgSpeedKmh:       AverageSpeed(r.DistanceMeters, r.TravelTimeSeconds),
		TrafficLevel:      level,
		Reason:            level.Reason(),
		ViaPoint:          s.viaPoint(ctx, r.Points),
		DelayRatio:        math.Round(ratio*100) / 100,
		Geometry:          encodeGeometry(r.Points),
	}
}

func (s *Summarizer) viaPoint(ctx context.Context, points []geo.Coordinate) string {
	if len(points) <= 2 {
		return ViaPointUnset
	}
	if s.via == nil {
		return ViaPointFallback
	}

	mid := points[len(points)/2]
	name, ok := s.via.ReverseResolve(ctx, mid)
	if !ok {
		s.logger.Debug().
			Float64("lat", mid.Lat).
			Float64("lon", mid.Lon).
			Msg("via point unresolved, using fallback")
		return ViaPointFallback
	}
	return name
}

// Classify maps a delay ratio to a traffic level. Thresholds are compared
// against the unrounded ratio and are exclusive on the lower class.
func Classify(ratio float64) TrafficLevel {
	switch {
	case ratio < mediumThreshold:
		return TrafficLow
	case ratio < highThreshold:
		return TrafficMedium
	default:
		return TrafficHigh
	}
}

// FormatDuration renders whole hours and minutes, omitting hours when zero.
// Seconds are truncated.
func FormatDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d hr %d mins", hours, minutes)
	}
	return fmt.Sprintf("%d mins", minutes)
}

// AverageSpeed returns km/h rounded to one decimal, or 0 when travel time is zero.
func AverageSpeed(distanceMeters, travelSeconds int) float64 {
	if travelSeconds <= 0 {
		return 0
	}
	km := float64(distanceMeters) / 1000
	hours := float64(travelSeconds) / 3600
	return round1(km / hours)
}

func encodeGeometry(points []geo.Coordinate) string {
	if len(points) == 0 {
		return ""
	}
	coords := make([]polyline.Coordinate, len(points))
	for i, p := range points {
		coords[i] = polyline.Coordinate{Lat: p.Lat, Lon: p.Lon}
	}
	return polyline.Encode(coords)
}

func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
