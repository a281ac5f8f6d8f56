// Package openmeteo provides a client for the Open-Meteo hourly forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/provider/resilience"
	"github.com/departwise/departwise/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo API base URL.
	DefaultBaseURL = "https://api.open-meteo.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	hourlyVariables = "temperature_2m,weather_code,wind_speed_10m,relative_humidity_2m"
	timeLayout      = "2006-01-02T15:04"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Metrics records provider call outcomes (optional).
	Metrics *resilience.CallMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client. The API needs no key.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.Registry = cfg.Registry
		clientCfg.Metrics = cfg.Metrics
		clientCfg.Logger = cfg.Logger
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// HourlyForecast fetches an hourly forecast for days days, in the location's local time.
func (c *Client) HourlyForecast(ctx context.Context, coord geo.Coordinate, days int) (*weather.Forecast, error) {
	if err := coord.Validate(); err != nil {
		return nil, &weather.Error{
			Provider: ProviderName,
			Code:     "INVALID_COORDINATES",
			Message:  "invalid forecast coordinates",
			Err:      weather.ErrInvalidCoordinates,
		}
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	params.Set("hourly", hourlyVariables)
	params.Set("forecast_days", strconv.Itoa(days))
	params.Set("timezone", "auto")

	endpoint := c.baseURL + "/v1/forecast?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Float64("lat", coord.Lat).
		Float64("lon", coord.Lon).
		Int("forecast_days", days).
		Msg("requesting hourly forecast from Open-Meteo")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &weather.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach weather provider",
			Err:      fmt.Errorf("%w: %w", weather.ErrProviderUnavailable, err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}

	var omResp forecastResponse
	if err := json.Unmarshal(body, &omResp); err != nil {
		return nil, &weather.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_RESPONSE",
			Message:  "weather provider returned an unreadable body",
			Err:      fmt.Errorf("%w: %w", weather.ErrProviderUnavailable, err),
		}
	}

	forecast, err := toForecast(&omResp)
	if err != nil {
		return nil, &weather.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_RESPONSE",
			Message:  "weather provider returned unparseable timestamps",
			Err:      fmt.Errorf("%w: %w", weather.ErrProviderUnavailable, err),
		}
	}

	c.logger.Debug().
		Int("hours", len(forecast.Hourly)).
		Str("timezone", omResp.Timezone).
		Msg("received hourly forecast from Open-Meteo")

	return forecast, nil
}

func handleErrorResponse(statusCode int, body []byte) error {
	var omErr errorResponse
	_ = json.Unmarshal(body, &omErr)

	message := omErr.Reason
	if message == "" {
		message = fmt.Sprintf("weather provider returned status %d", statusCode)
	}

	code := fmt.Sprintf("HTTP_%d", statusCode)
	switch {
	case statusCode == http.StatusTooManyRequests:
		code = "RATE_LIMIT"
	case statusCode >= 500:
		code = fmt.Sprintf("SERVER_%d", statusCode)
	}

	return &weather.Error{
		Provider: ProviderName,
		Code:     code,
		Message:  message,
		Err:      weather.ErrProviderUnavailable,
	}
}

// toForecast zips the parallel hourly arrays. Hours with a missing value are dropped.
func toForecast(resp *forecastResponse) (*weather.Forecast, error) {
	loc := time.FixedZone(resp.TimezoneAbbreviation, resp.UTCOffsetSeconds)
	h := &resp.Hourly

	n := min(len(h.Time), len(h.Temperature), len(h.WeatherCode), len(h.WindSpeed), len(h.RelativeHumidity))
	samples := make([]weather.HourlySample, 0, n)
	for i := 0; i < n; i++ {
		if h.Temperature[i] == nil || h.WeatherCode[i] == nil || h.WindSpeed[i] == nil || h.RelativeHumidity[i] == nil {
			continue
		}
		t, err := time.ParseInLocation(timeLayout, h.Time[i], loc)
		if err != nil {
			return nil, fmt.Errorf("parsing hourly time %q: %w", h.Time[i], err)
		}
		samples = append(samples, weather.HourlySample{
			Time:        t,
			Temperature: *h.Temperature[i],
			WindSpeed:   *h.WindSpeed[i],
			Humidity:    *h.RelativeHumidity[i],
			WeatherCode: *h.WeatherCode[i],
		})
	}

	return &weather.Forecast{
		Hourly:    samples,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}, nil
}
