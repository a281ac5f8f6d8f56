package tomtom

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
	"github.com/departwise/departwise/internal/routing"
)

var (
	testOrigin      = geo.Coordinate{Lat: 12.9716, Lon: 77.5946}
	testDestination = geo.Coordinate{Lat: 12.8452, Lon: 77.6602}
)

func newTestClient(server *httptest.Server) *Client {
	return NewClient(ClientConfig{
		APIKey:     "mock123",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})
}

func TestClient_CalculateRoute_Success(t *testing.T) {
	respBody, err := os.ReadFile("testdata/calculate_route_response.json")
	require.NoError(t, err)

	departAt := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/routing/1/calculateRoute/12.9716,77.5946:12.8452,77.6602/json", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "mock123", q.Get("key"))
		assert.Equal(t, "true", q.Get("traffic"))
		assert.Equal(t, "all", q.Get("computeTravelTimeFor"))
		assert.Equal(t, "2026-10-15T09:00:00", q.Get("departAt"))
		assert.Equal(t, "1", q.Get("maxAlternatives"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(respBody)
	}))
	defer server.Close()

	resp, err := newTestClient(server).CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		DepartAt:    &departAt,
		Traffic:     true,
		Alternative: true,
	})
	require.NoError(t, err)

	assert.Equal(t, ProviderName, resp.Provider)
	require.Len(t, resp.Routes, 2)

	primary := resp.Routes[0]
	assert.Equal(t, 50000, primary.DistanceMeters)
	assert.Equal(t, 4500, primary.TravelTimeSeconds)
	assert.Equal(t, 3600, primary.NoTrafficTravelTimeSeconds)
	require.Len(t, primary.Points, 4)
	assert.Equal(t, geo.Coordinate{Lat: 12.95, Lon: 77.62}, primary.Points[1])

	assert.Equal(t, 56200, resp.Routes[1].DistanceMeters)
}

func TestClient_CalculateRoute_OptionalParamsOmitted(t *testing.T) {
	respBody, err := os.ReadFile("testdata/calculate_route_response.json")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("departAt"))
		assert.False(t, q.Has("maxAlternatives"))
		_, _ = w.Write(respBody)
	}))
	defer server.Close()

	_, err = newTestClient(server).CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      testOrigin,
		Destination: testDestination,
		Traffic:     true,
	})
	require.NoError(t, err)
}

func TestClient_CalculateRoute_NoRouteFound(t *testing.T) {
	respBody, err := os.ReadFile("testdata/no_route_response.json")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write(respBody)
	}))
	defer server.Close()

	_, err = newTestClient(server).CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      testOrigin,
		Destination: testDestination,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)

	var routingErr *routing.Error
	require.ErrorAs(t, err, &routingErr)
	assert.Equal(t, "NO_ROUTE", routingErr.Code)
}

func TestClient_CalculateRoute_EmptyRoutes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"formatVersion":"0.0.12","routes":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      testOrigin,
		Destination: testDestination,
	})
	assert.ErrorIs(t, err, routing.ErrNoRouteFound)
}

func TestClient_CalculateRoute_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"rate limited", http.StatusTooManyRequests, routing.ErrRateLimitExceeded},
		{"forbidden", http.StatusForbidden, routing.ErrProviderUnavailable},
		{"server error", http.StatusBadGateway, routing.ErrProviderUnavailable},
		{"bad request", http.StatusBadRequest, routing.ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"error":{"description":"nope"}}`))
			}))
			defer server.Close()

			_, err := newTestClient(server).CalculateRoute(context.Background(), routing.DirectionsRequest{
				Origin:      testOrigin,
				Destination: testDestination,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_CalculateRoute_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server).CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      testOrigin,
		Destination: testDestination,
	})
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)
}

func TestClient_CalculateRoute_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIKey:  "mock123",
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
		Logger:  zerolog.Nop(),
	})

	_, err := client.CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      testOrigin,
		Destination: testDestination,
	})
	assert.ErrorIs(t, err, routing.ErrProviderUnavailable)
}

func TestClient_CalculateRoute_InvalidCoordinates(t *testing.T) {
	client := NewClient(ClientConfig{APIKey: "mock123", Logger: zerolog.Nop()})

	_, err := client.CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      geo.Coordinate{Lat: 91, Lon: 0},
		Destination: testDestination,
	})
	assert.ErrorIs(t, err, routing.ErrInvalidCoordinates)

	_, err = client.CalculateRoute(context.Background(), routing.DirectionsRequest{
		Origin:      testOrigin,
		Destination: geo.Coordinate{Lat: 0, Lon: -181},
	})
	assert.ErrorIs(t, err, routing.ErrInvalidCoordinates)
}
