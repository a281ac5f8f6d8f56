package resilience

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/departwise/departwise/provider"

// CallMetrics records duration and outcome of outbound provider calls.
// A nil *CallMetrics is valid and records nothing.
type CallMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

// NewCallMetrics creates provider call instruments on the global meter provider.
func NewCallMetrics() (*CallMetrics, error) {
	meter := otel.Meter(meterName)

	duration, err := meter.Float64Histogram(
		"provider.call.duration",
		metric.WithDescription("Duration of outbound provider calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		"provider.call.total",
		metric.WithDescription("Total number of outbound provider calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &CallMetrics{duration: duration, total: total}, nil
}

// Record records one call for provider.
func (m *CallMetrics) Record(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("provider.name", provider),
		attribute.String("outcome", outcome),
	)

	ctx := context.Background()
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.total.Add(ctx, 1, attrs)
}
