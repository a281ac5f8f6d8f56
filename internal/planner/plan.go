package planner

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/departwise/departwise/internal/routing"
	"github.com/departwise/departwise/internal/timewindow"
)

// PlanRequest asks for a full departure plan.
type PlanRequest struct {
	Origin      string
	Destination string
	Window      timewindow.TimeWindow
	// Efficiency is the vehicle's km per unit of fuel. Nil or non-positive
	// uses the service default.
	Efficiency *float64
}

// Plan combines the scan result with the routes at the window's start.
type Plan struct {
	BestHour     int
	BestTime     string
	AvgSpeedKmh  float64
	TrafficLevel routing.TrafficLevel
	Reason       string
	ViaPoint     string
	FuelNeeded   float64
	Efficiency   float64
	Message      string

	Primary     routing.RouteSummary
	Alternative *routing.RouteSummary
}

// SmartPlan scans the window for the best hour, then fetches the primary and
// one alternative route departing at the window's start hour.
func (s *Service) SmartPlan(ctx context.Context, req PlanRequest) (*Plan, error) {
	ctx, span := s.tracer.Start(ctx, "planner.SmartPlan", trace.WithAttributes(
		attribute.Int("window.start_hour", req.Window.StartHour),
		attribute.Int("window.end_hour", req.Window.EndHour),
	))
	defer span.End()

	now := s.now()

	scan, err := s.scanAt(ctx, ScanRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Window:      req.Window,
	}, now)
	if err != nil {
		return nil, &Error{Kind: KindEmpty, Code: CodeNoBestTime, Reason: ReasonNoBestTime, Err: err}
	}

	departAt := req.Window.DepartureInstant(req.Window.StartHour, now)
	routes, err := s.Route(ctx, RouteRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartAt:    &departAt,
		Alternative: true,
	})
	if err != nil {
		return nil, err
	}

	efficiency := s.defaultEfficiency
	if req.Efficiency != nil && *req.Efficiency > 0 {
		efficiency = *req.Efficiency
	}

	bestTime := timewindow.ClockLabel(scan.BestHour)
	primary := routes.Primary

	plan := &Plan{
		BestHour:     scan.BestHour,
		BestTime:     bestTime,
		AvgSpeedKmh:  scan.AvgSpeedKmh,
		TrafficLevel: primary.TrafficLevel,
		Reason:       primary.Reason,
		ViaPoint:     primary.ViaPoint,
		FuelNeeded:   FuelNeeded(primary.DistanceKm, efficiency),
		Efficiency:   efficiency,
		Message: fmt.Sprintf(
			"Based on real traffic data, the best time to leave is around %s. Estimated average speed: %s km/h.",
			bestTime, formatSpeed(scan.AvgSpeedKmh)),
		Primary:     primary,
		Alternative: routes.Alternative,
	}

	s.logger.Info().
		Int("best_hour", plan.BestHour).
		Str("traffic_level", string(plan.TrafficLevel)).
		Bool("has_alternative", plan.Alternative != nil).
		Msg("smart plan computed")

	return plan, nil
}

// FuelNeeded returns the fuel used over distanceKm at efficiency km per unit,
// rounded to two decimals. It is 0 for non-positive efficiency.
func FuelNeeded(distanceKm, efficiency float64) float64 {
	if efficiency <= 0 {
		return 0
	}
	return math.Round(distanceKm/efficiency*100) / 100
}

// formatSpeed renders a speed with at least one decimal place ("40.0", "33.3").
func formatSpeed(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
