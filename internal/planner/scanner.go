package planner

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/departwise/departwise/internal/routing"
	"github.com/departwise/departwise/internal/timewindow"
)

// ScanRequest asks for the best departure hour between two named places.
type ScanRequest struct {
	Origin      string
	Destination string
	Window      timewindow.TimeWindow
}

// ScanResult is the reduction of a departure window scan.
type ScanResult struct {
	BestHour    int
	AvgSpeedKmh float64
	// TrafficLevel is classified from the window's first hour, independent
	// of which hour wins. It is Low when that hour's query failed.
	TrafficLevel routing.TrafficLevel

	HoursScanned int
	HoursFailed  int
}

// Scan queries every hour of the window and returns the hour with the lowest
// predicted travel time. Failed hours are skipped; the scan fails only when
// the endpoints cannot be resolved or every hour failed.
func (s *Service) Scan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "planner.Scan", trace.WithAttributes(
		attribute.Int("window.start_hour", req.Window.StartHour),
		attribute.Int("window.end_hour", req.Window.EndHour),
	))
	defer span.End()

	scan, err := s.scanAt(ctx, req, s.now())
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("scan.best_hour", scan.BestHour))
	return scan, nil
}

// scanAt runs the scan with departures computed from now.
func (s *Service) scanAt(ctx context.Context, req ScanRequest, now time.Time) (*ScanResult, error) {
	from, to, err := s.resolvePair(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}

	results := s.queryWindow(ctx, from, to, req.Window, now)
	scan, ok := reduceScan(req.Window.StartHour, results)
	if !ok {
		s.logger.Warn().
			Str("origin", req.Origin).
			Str("destination", req.Destination).
			Int("hours", len(results)).
			Msg("every hour in the window failed")
		return nil, &Error{Kind: KindEmpty, Code: CodeNoBestTime, Reason: ReasonNoBestTime, Err: routing.ErrNoRouteFound}
	}
	return scan, nil
}

// reduceScan picks the first hour with the strictly lowest travel time.
// results must be in ascending hour order. ok is false when no hour succeeded.
func reduceScan(startHour int, results []RouteQueryResult) (*ScanResult, bool) {
	scan := &ScanResult{TrafficLevel: routing.TrafficLow, HoursScanned: len(results)}
	found := false
	minTime := 0

	for _, r := range results {
		if !r.OK() {
			scan.HoursFailed++
			continue
		}
		if r.Hour == startHour {
			scan.TrafficLevel = routing.Classify(r.Route.DelayRatio())
		}
		if !found || r.Route.TravelTimeSeconds < minTime {
			found = true
			minTime = r.Route.TravelTimeSeconds
			scan.BestHour = r.Hour
			scan.AvgSpeedKmh = routing.AverageSpeed(r.Route.DistanceMeters, r.Route.TravelTimeSeconds)
		}
	}
	return scan, found
}
