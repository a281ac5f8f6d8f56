package routing

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/pkg/polyline"
)

type stubVia struct {
	name  string
	ok    bool
	calls atomic.Int32
	last  geo.Coordinate
}

func (s *stubVia) ReverseResolve(_ context.Context, c geo.Coordinate) (string, bool) {
	s.calls.Add(1)
	s.last = c
	return s.name, s.ok
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		want  TrafficLevel
	}{
		{0.8, TrafficLow},
		{1.0, TrafficLow},
		{1.0999999, TrafficLow},
		{1.10, TrafficMedium},
		{1.25, TrafficMedium},
		{1.3999999, TrafficMedium},
		{1.40, TrafficHigh},
		{2.5, TrafficHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestTrafficLevel_Reason(t *testing.T) {
	assert.Equal(t, "Traffic is flowing smoothly with minimal delays.", TrafficLow.Reason())
	assert.Contains(t, TrafficMedium.Reason(), "Moderate traffic")
	assert.Contains(t, TrafficHigh.Reason(), "Heavy congestion")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0 mins"},
		{59, "0 mins"},
		{2700, "45 mins"},
		{3600, "1 hr 0 mins"},
		{3661, "1 hr 1 mins"},
		{4500, "1 hr 15 mins"},
		{-5, "0 mins"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "seconds %d", tt.seconds)
	}
}

func TestAverageSpeed(t *testing.T) {
	assert.InDelta(t, 40.0, AverageSpeed(50000, 4500), 1e-9)
	assert.InDelta(t, 33.3, AverageSpeed(10000, 1080), 1e-9)
	assert.Zero(t, AverageSpeed(10000, 0))
}

func TestSummarizer_DistanceRoundsHalfToEven(t *testing.T) {
	s := NewSummarizer(SummarizerConfig{Logger: zerolog.Nop()})

	assert.InDelta(t, 12.2, s.Summarize(context.Background(), Route{DistanceMeters: 12250, TravelTimeSeconds: 900}).DistanceKm, 1e-9)
	assert.InDelta(t, 12.4, s.Summarize(context.Background(), Route{DistanceMeters: 12350, TravelTimeSeconds: 900}).DistanceKm, 1e-9)
}

func TestRoute_DelayRatio(t *testing.T) {
	assert.InDelta(t, 1.25, Route{TravelTimeSeconds: 4500, NoTrafficTravelTimeSeconds: 3600}.DelayRatio(), 1e-9)
	assert.InDelta(t, 1.0, Route{TravelTimeSeconds: 4500}.DelayRatio(), 1e-9)
	assert.False(t, Route{TravelTimeSeconds: 4500}.HasBaseline())
}

func TestSummarizer_Summarize(t *testing.T) {
	via := &stubVia{name: "Electronic City", ok: true}
	s := NewSummarizer(SummarizerConfig{Via: via, Logger: zerolog.Nop()})

	points := []geo.Coordinate{
		{Lat: 12.90, Lon: 77.60},
		{Lat: 12.91, Lon: 77.61},
		{Lat: 12.92, Lon: 77.62},
		{Lat: 12.93, Lon: 77.63},
	}
	got := s.Summarize(context.Background(), Route{
		DistanceMeters:             50000,
		TravelTimeSeconds:          4500,
		NoTrafficTravelTimeSeconds: 3600,
		Points:                     points,
	})

	assert.InDelta(t, 50.0, got.DistanceKm, 1e-9)
	assert.InDelta(t, 40.0, got.AvgSpeedKmh, 1e-9)
	assert.Equal(t, TrafficMedium, got.TrafficLevel)
	assert.Equal(t, TrafficMedium.Reason(), got.Reason)
	assert.Equal(t, "1 hr 15 mins", got.DurationFormatted)
	assert.InDelta(t, 1.25, got.DelayRatio, 1e-9)
	assert.Equal(t, "Electronic City", got.ViaPoint)
	assert.Equal(t, points[2], via.last, "midpoint is floor(len/2)")

	assert.Equal(t, polyline.Encode([]polyline.Coordinate{
		{Lat: 12.90, Lon: 77.60},
		{Lat: 12.91, Lon: 77.61},
		{Lat: 12.92, Lon: 77.62},
		{Lat: 12.93, Lon: 77.63},
	}), got.Geometry)
}

func TestSummarizer_ViaPoint(t *testing.T) {
	three := []geo.Coordinate{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}}

	t.Run("two points or fewer skips lookup", func(t *testing.T) {
		via := &stubVia{name: "X", ok: true}
		s := NewSummarizer(SummarizerConfig{Via: via, Logger: zerolog.Nop()})

		got := s.Summarize(context.Background(), Route{Points: three[:2]})
		assert.Equal(t, ViaPointUnset, got.ViaPoint)
		assert.Zero(t, via.calls.Load())
	})

	t.Run("unresolved falls back", func(t *testing.T) {
		via := &stubVia{ok: false}
		s := NewSummarizer(SummarizerConfig{Via: via, Logger: zerolog.Nop()})

		got := s.Summarize(context.Background(), Route{Points: three})
		assert.Equal(t, ViaPointFallback, got.ViaPoint)
		assert.Equal(t, int32(1), via.calls.Load())
	})

	t.Run("no resolver falls back", func(t *testing.T) {
		s := NewSummarizer(SummarizerConfig{Logger: zerolog.Nop()})

		got := s.Summarize(context.Background(), Route{Points: three})
		assert.Equal(t, ViaPointFallback, got.ViaPoint)
	})
}

func TestSummarizer_ZeroBaseline(t *testing.T) {
	s := NewSummarizer(SummarizerConfig{Logger: zerolog.Nop()})

	got := s.Summarize(context.Background(), Route{DistanceMeters: 12345, TravelTimeSeconds: 900})
	assert.InDelta(t, 1.0, got.DelayRatio, 1e-9)
	assert.Equal(t, TrafficLow, got.TrafficLevel)
	assert.InDelta(t, 12.3, got.DistanceKm, 1e-9)
	assert.Equal(t, "15 mins", got.DurationFormatted)
	assert.Empty(t, got.Geometry)
}
