package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/departwise/departwise/internal/routing"
)

func TestRiskFromRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{1.0, 0},
		{1.5, 75},
		{2.0, 100},
		{3.0, 100},
		{0.8, 0},
		{1.1, 15},
		{1.25, 38},
		{1.2, 30},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskFromRatio(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestRiskScore_NoBaseline(t *testing.T) {
	assert.Equal(t, 0, RiskScore(route(50000, 9000, 0)))
	assert.Equal(t, 75, RiskScore(route(50000, 4500, 3000)))
}

func TestRiskCurve(t *testing.T) {
	rt := byHour(map[int]routing.Route{
		8:  route(50000, 3000, 3000),
		9:  route(50000, 4500, 3000),
		11: route(50000, 7000, 0),
		12: route(50000, 9000, 3000),
		13: route(50000, 3300, 3000),
	})

	curve, err := newTestService(rt).RiskCurve(context.Background(), RiskRequest{
		Origin:      "Indiranagar",
		Destination: "Koramangala",
		Window:      window(t, 8, 13),
	})
	require.NoError(t, err)

	// Hour 10 failed and is left out.
	assert.Equal(t, []RiskSample{
		{Hour: 8, TimeLabel: "8 AM", Risk: 0},
		{Hour: 9, TimeLabel: "9 AM", Risk: 75},
		{Hour: 11, TimeLabel: "11 AM", Risk: 0},
		{Hour: 12, TimeLabel: "12 PM", Risk: 100},
		{Hour: 13, TimeLabel: "1 PM", Risk: 15},
	}, curve)
}

func TestRiskCurve_AllHoursFail(t *testing.T) {
	curve, err := newTestService(byHour(nil)).RiskCurve(context.Background(), RiskRequest{
		Origin:      "Indiranagar",
		Destination: "Koramangala",
		Window:      window(t, 8, 10),
	})
	require.NoError(t, err)
	assert.Empty(t, curve)
}

func TestRiskCurve_InvalidLocations(t *testing.T) {
	_, err := newTestService(byHour(nil)).RiskCurve(context.Background(), RiskRequest{
		Origin:      "Atlantis",
		Destination: "Koramangala",
		Window:      window(t, 8, 10),
	})
	pErr := requirePlannerError(t, err, CodeInvalidLocations)
	assert.Equal(t, ReasonInvalidLocations, pErr.Reason)
}
