package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/departwise/departwise/internal/config"
	"github.com/departwise/departwise/internal/telemetry"
)

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		OTLPEndpoint:   "localhost:4317",
		Enabled:        false,
	})

	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.False(t, provider.Enabled())
	assert.Nil(t, provider.TracerProvider)
	assert.Nil(t, provider.MeterProvider)

	// Propagators are installed even without exporters.
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())

	assert.NoError(t, provider.Shutdown(ctx))
}

func TestProvider_Shutdown_NilProviders(t *testing.T) {
	provider := &telemetry.Provider{}
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestFromConfig(t *testing.T) {
	cfg := telemetry.FromConfig(config.TelemetryConfig{
		Enabled:      true,
		OTLPEndpoint: "collector:4317",
		Environment:  "staging",
	}, "departwise-api", "1.2.3")

	assert.Equal(t, telemetry.Config{
		ServiceName:    "departwise-api",
		ServiceVersion: "1.2.3",
		Environment:    "staging",
		OTLPEndpoint:   "collector:4317",
		Enabled:        true,
	}, cfg)
}
