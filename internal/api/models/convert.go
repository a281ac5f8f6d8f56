package models

import (
	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/planner"
	"github.com/departwise/departwise/internal/routing"
	"github.com/departwise/departwise/internal/timewindow"
	"github.com/departwise/departwise/internal/weather"
)

// NewPoint converts a coordinate.
func NewPoint(c geo.Coordinate) Point {
	return Point{Lat: c.Lat, Lon: c.Lon}
}

// NewRouteSummary converts a summarized route.
func NewRouteSummary(s routing.RouteSummary) RouteSummary {
	return RouteSummary{
		DistanceKm:        s.DistanceKm,
		DurationFormatted: s.DurationFormatted,
		AvgSpeedKmh:       s.AvgSpeedKmh,
		TrafficLevel:      string(s.TrafficLevel),
		Reason:            s.Reason,
		ViaPoint:          s.ViaPoint,
		DelayRatio:        s.DelayRatio,
		Geometry:          s.Geometry,
	}
}

func newOptionalRouteSummary(s *routing.RouteSummary) *RouteSummary {
	if s == nil {
		return nil
	}
	out := NewRouteSummary(*s)
	return &out
}

// NewRouteComputeResponse converts a route lookup result.
func NewRouteComputeResponse(r *planner.RouteResult) RouteComputeResponse {
	return RouteComputeResponse{
		Origin:      NewPoint(r.Origin),
		Destination: NewPoint(r.Destination),
		Primary:     NewRouteSummary(r.Primary),
		Alternative: newOptionalRouteSummary(r.Alternative),
	}
}

// NewBestDepartureResponse converts a window scan result.
func NewBestDepartureResponse(r *planner.ScanResult) BestDepartureResponse {
	return BestDepartureResponse{
		BestHour:     r.BestHour,
		BestTime:     timewindow.ClockLabel(r.BestHour),
		AvgSpeedKmh:  r.AvgSpeedKmh,
		TrafficLevel: string(r.TrafficLevel),
		HoursScanned: r.HoursScanned,
		HoursFailed:  r.HoursFailed,
	}
}

// NewSmartPlanResponse converts a smart plan. The best_alt fields repeat the
// scan's best time and speed.
func NewSmartPlanResponse(p *planner.Plan) SmartPlanResponse {
	return SmartPlanResponse{
		BestHour:     p.BestHour,
		AvgSpeed:     p.AvgSpeedKmh,
		TrafficLevel: string(p.TrafficLevel),
		Reason:       p.Reason,
		ViaPoint:     p.ViaPoint,
		BestAltTime:  p.BestTime,
		BestAltSpeed: p.AvgSpeedKmh,
		FuelNeeded:   p.FuelNeeded,
		Efficiency:   p.Efficiency,
		Primary:      NewRouteSummary(p.Primary),
		Alternative:  newOptionalRouteSummary(p.Alternative),
		Message:      p.Message,
	}
}

// NewRiskCurve converts a risk curve. The result is never nil so it encodes as [].
func NewRiskCurve(curve []planner.RiskSample) []RiskSample {
	out := make([]RiskSample, 0, len(curve))
	for _, s := range curve {
		out = append(out, RiskSample{Hour: s.Hour, TimeLabel: s.TimeLabel, Risk: s.Risk})
	}
	return out
}

// NewWeatherWindowResponse converts a forecast window summary.
func NewWeatherWindowResponse(s *weather.ForecastWindowSummary) WeatherWindowResponse {
	return WeatherWindowResponse{
		Condition:     string(s.Condition),
		Label:         s.Label,
		Emoji:         s.Emoji,
		Message:       s.Message,
		Image:         s.Image,
		Temperature:   s.Temperature,
		WindSpeed:     s.WindSpeed,
		Humidity:      s.Humidity,
		HoursAnalyzed: s.HoursAnalyzed,
	}
}
