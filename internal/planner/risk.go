package planner

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/departwise/departwise/internal/routing"
	"github.com/departwise/departwise/internal/timewindow"
)

// riskMultiplier scales excess delay into percentage points.
const riskMultiplier = 150.0

// RiskSample is the late-arrival risk for one departure hour.
type RiskSample struct {
	Hour      int
	TimeLabel string
	Risk      int
}

// RiskRequest asks for a risk curve between two named places.
type RiskRequest struct {
	Origin      string
	Destination string
	Window      timewindow.TimeWindow
}

// RiskCurve returns the late-arrival risk for each hour of the window in
// ascending order. Hours whose query failed are left out, so the curve can be
// shorter than the window or empty.
func (s *Service) RiskCurve(ctx context.Context, req RiskRequest) ([]RiskSample, error) {
	ctx, span := s.tracer.Start(ctx, "planner.RiskCurve", trace.WithAttributes(
		attribute.Int("window.start_hour", req.Window.StartHour),
		attribute.Int("window.end_hour", req.Window.EndHour),
	))
	defer span.End()

	from, to, err := s.resolvePair(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}

	results := s.queryWindow(ctx, from, to, req.Window, s.now())
	curve := reduceRisk(results)

	span.SetAttributes(attribute.Int("risk.samples", len(curve)))
	return curve, nil
}

func reduceRisk(results []RouteQueryResult) []RiskSample {
	curve := make([]RiskSample, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			continue
		}
		curve = append(curve, RiskSample{
			Hour:      r.Hour,
			TimeLabel: timewindow.HourLabel(r.Hour),
			Risk:      RiskScore(*r.Route),
		})
	}
	return curve
}

// RiskScore is the late-arrival risk percentage for a route. Routes without a
// traffic-free baseline score 0.
func RiskScore(r routing.Route) int {
	if !r.HasBaseline() {
		return 0
	}
	return RiskFromRatio(r.DelayRatio())
}

// RiskFromRatio converts a delay ratio to a risk percentage clamped to 0-100.
// Halves round to even.
func RiskFromRatio(ratio float64) int {
	risk := math.RoundToEven((ratio - 1) * riskMultiplier)
	return int(math.Max(0, math.Min(100, risk)))
}
