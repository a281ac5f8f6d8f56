// Package tomtom provides a client for the TomTom Routing API (calculateRoute).
package tomtom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/provider/resilience"
	"github.com/departwise/departwise/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "tomtom-routing"

	// DefaultBaseURL is the TomTom API base URL.
	DefaultBaseURL = "https://api.tomtom.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// departAtLayout is the local wall-clock form TomTom accepts for departAt.
	departAtLayout = "2006-01-02T15:04:05"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the TomTom routing client.
type ClientConfig struct {
	// APIKey is the TomTom API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the TomTom API).
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

// Client is a TomTom Routing API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new TomTom routing client.
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
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CalculateRoute retrieves the route between two points, with at most one alternative.
func (c *Client) CalculateRoute(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	if err := req.Origin.Validate(); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}
	if err := req.Destination.Validate(); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	endpoint := c.routeURL(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	logEvent := c.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Bool("alternative", req.Alternative)
	if req.DepartAt != nil {
		logEvent = logEvent.Time("depart_at", *req.DepartAt)
	}
	logEvent.Msg("requesting route from TomTom")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      fmt.Errorf("%w: %w", routing.ErrProviderUnavailable, err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "READ_FAILED",
			Message:  "failed to read routing response",
			Err:      fmt.Errorf("%w: %w", routing.ErrProviderUnavailable, err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var ttResp calculateRouteResponse
	if err := json.Unmarshal(body, &ttResp); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_RESPONSE",
			Message:  "routing provider returned an unreadable body",
			Err:      fmt.Errorf("%w: %w", routing.ErrProviderUnavailable, err),
		}
	}

	if len(ttResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "routing provider returned no routes",
			Err:      routing.ErrNoRouteFound,
		}
	}

	result := toDirectionsResponse(&ttResp)

	c.logger.Debug().
		Int("route_count", len(result.Routes)).
		Msg("received route from TomTom")

	return result, nil
}

func (c *Client) routeURL(req routing.DirectionsRequest) string {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("traffic", fmt.Sprintf("%t", req.Traffic))
	params.Set("computeTravelTimeFor", "all")
	if req.DepartAt != nil {
		params.Set("departAt", req.DepartAt.Format(departAtLayout))
	}
	if req.Alternative {
		params.Set("maxAlternatives", "1")
	}

	locations := req.Origin.String() + ":" + req.Destination.String()
	return fmt.Sprintf("%s/routing/1/calculateRoute/%s/json?%s", c.baseURL, locations, params.Encode())
}

// handleErrorResponse maps TomTom error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var ttErr errorResponse
	_ = json.Unmarshal(body, &ttErr)

	message := ttErr.DetailedError.Message
	if message == "" {
		message = ttErr.Error.Description
	}

	switch {
	case statusCode == http.StatusBadRequest &&
		(ttErr.DetailedError.Code == errorCodeNoRouteFound || ttErr.DetailedError.Code == errorCodeMapMatchingFailure):
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  message,
			Err:      routing.ErrNoRouteFound,
		}
	case statusCode == http.StatusBadRequest:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  message,
			Err:      routing.ErrInvalidCoordinates,
		}
	case statusCode == http.StatusTooManyRequests:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusForbidden || statusCode == http.StatusUnauthorized:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Message:  "API access denied - check API key configuration",
			Err:      routing.ErrProviderUnavailable,
		}
	case statusCode >= 500:
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "routing provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

func toDirectionsResponse(resp *calculateRouteResponse) *routing.DirectionsResponse {
	routes := make([]routing.Route, 0, len(resp.Routes))
	for i := range resp.Routes {
		r := &resp.Routes[i]

		var points []geo.Coordinate
		for _, leg := range r.Legs {
			for _, p := range leg.Points {
				points = append(points, geo.Coordinate{Lat: p.Latitude, Lon: p.Longitude})
			}
		}

		routes = append(routes, routing.Route{
			DistanceMeters:             r.Summary.LengthInMeters,
			TravelTimeSeconds:          r.Summary.TravelTimeInSeconds,
			NoTrafficTravelTimeSeconds: r.Summary.NoTrafficTravelTimeInSeconds,
			Points:                     points,
		})
	}

	return &routing.DirectionsResponse{
		Routes:    routes,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}
}
