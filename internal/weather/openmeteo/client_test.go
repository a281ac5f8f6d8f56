package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/weather"
)

func newTestClient(server *httptest.Server) *Client {
	return NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})
}

func TestClient_HourlyForecast_Success(t *testing.T) {
	respBody, err := os.ReadFile("testdata/forecast_response.json")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "12.97", q.Get("latitude"))
		assert.Equal(t, "77.59", q.Get("longitude"))
		assert.Equal(t, "temperature_2m,weather_code,wind_speed_10m,relative_humidity_2m", q.Get("hourly"))
		assert.Equal(t, "2", q.Get("forecast_days"))
		assert.Equal(t, "auto", q.Get("timezone"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(respBody)
	}))
	defer server.Close()

	forecast, err := newTestClient(server).HourlyForecast(context.Background(), geo.Coordinate{Lat: 12.97, Lon: 77.59}, 2)
	require.NoError(t, err)

	assert.Equal(t, ProviderName, forecast.Provider)
	// 48 hours in the fixture, one with a null temperature.
	require.Len(t, forecast.Hourly, 47)

	first := forecast.Hourly[0]
	_, offset := first.Time.Zone()
	assert.Equal(t, 19800, offset)
	assert.Equal(t, 0, first.Time.Hour())
	assert.True(t, first.Time.Equal(time.Date(2026, 10, 13, 18, 30, 0, 0, time.UTC)))
	assert.InDelta(t, 20.0, first.Temperature, 1e-9)
	assert.Equal(t, 1, first.WeatherCode)

	assert.Equal(t, 6, forecast.Hourly[5].Time.Hour(), "null hour is skipped")
	assert.Equal(t, 61, forecast.Hourly[12].WeatherCode)
}

func TestClient_HourlyForecast_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantCode   string
		wantMsg    string
	}{
		{"bad request", http.StatusBadRequest, `{"error":true,"reason":"Forecast days is invalid"}`, "HTTP_400", "Forecast days is invalid"},
		{"rate limited", http.StatusTooManyRequests, `{"error":true,"reason":"Daily API request limit exceeded"}`, "RATE_LIMIT", "Daily API request limit exceeded"},
		{"server error", http.StatusBadGateway, ``, "SERVER_502", "weather provider returned status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server).HourlyForecast(context.Background(), geo.Coordinate{Lat: 1, Lon: 1}, 2)
			require.Error(t, err)
			assert.ErrorIs(t, err, weather.ErrProviderUnavailable)

			var wErr *weather.Error
			require.ErrorAs(t, err, &wErr)
			assert.Equal(t, tt.wantCode, wErr.Code)
			assert.Equal(t, tt.wantMsg, wErr.Message)
		})
	}
}

func TestClient_HourlyForecast_EmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"utc_offset_seconds":0,"hourly":{"time":[]}}`))
	}))
	defer server.Close()

	forecast, err := newTestClient(server).HourlyForecast(context.Background(), geo.Coordinate{Lat: 1, Lon: 1}, 2)
	require.NoError(t, err)
	assert.Empty(t, forecast.Hourly)
}

func TestClient_HourlyForecast_BadTimestamp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hourly":{"time":["yesterday"],"temperature_2m":[1],"weather_code":[0],"wind_speed_10m":[1],"relative_humidity_2m":[1]}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).HourlyForecast(context.Background(), geo.Coordinate{Lat: 1, Lon: 1}, 2)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
}

func TestClient_HourlyForecast_InvalidCoordinates(t *testing.T) {
	client := NewClient(ClientConfig{Logger: zerolog.Nop()})

	_, err := client.HourlyForecast(context.Background(), geo.Coordinate{Lat: 100, Lon: 0}, 2)
	assert.ErrorIs(t, err, weather.ErrInvalidCoordinates)
}
