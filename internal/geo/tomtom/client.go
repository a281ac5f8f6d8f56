// Package tomtom provides a client for the TomTom Search API (fuzzy search and reverse geocoding).
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
)

const (
	// ProviderName identifies this search provider.
	ProviderName = "tomtom-search"

	// DefaultBaseURL is the TomTom API base URL.
	DefaultBaseURL = "https://api.tomtom.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the TomTom search client.
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

// Client is a TomTom Search API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new TomTom search client.
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

// Search returns ranked candidates for free-text query, best match first.
func (c *Client) Search(ctx context.Context, query string) ([]geo.Place, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/search/2/search/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())

	c.logger.Debug().
		Str("query", query).
		Msg("searching place with TomTom")

	var resp searchResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	places := make([]geo.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, geo.Place{
			Position: geo.Coordinate{Lat: r.Position.Lat, Lon: r.Position.Lon},
			Label:    r.Address.FreeformAddress,
		})
	}
	return places, nil
}

// ReverseGeocode returns ranked addresses for a coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, coord geo.Coordinate) ([]geo.Address, error) {
	if err := coord.Validate(); err != nil {
		return nil, &geo.Error{
			Provider: ProviderName,
			Code:     "INVALID_COORDINATES",
			Message:  "invalid reverse geocode coordinates",
			Err:      geo.ErrInvalidCoordinates,
		}
	}

	params := url.Values{}
	params.Set("key", c.apiKey)

	endpoint := fmt.Sprintf("%s/search/2/reverseGeocode/%s.json?%s", c.baseURL, coord.String(), params.Encode())

	c.logger.Debug().
		Float64("lat", coord.Lat).
		Float64("lon", coord.Lon).
		Msg("reverse geocoding with TomTom")

	var resp reverseResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	addresses := make([]geo.Address, 0, len(resp.Addresses))
	for _, a := range resp.Addresses {
		addresses = append(addresses, geo.Address{
			MunicipalitySubdivision: a.Address.MunicipalitySubdivision,
			Neighbourhood:           a.Address.Neighbourhood,
			Municipality:            a.Address.Municipality,
			StreetName:              a.Address.StreetName,
		})
	}
	return addresses, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &geo.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach search provider",
			Err:      geo.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &geo.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_RESPONSE",
			Message:  "search provider returned an unreadable body",
			Err:      fmt.Errorf("%w: %w", geo.ErrProviderUnavailable, err),
		}
	}
	return nil
}

func statusError(statusCode int) error {
	switch {
	case statusCode == http.StatusForbidden || statusCode == http.StatusUnauthorized:
		return &geo.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Message:  "search API access denied - check API key configuration",
			Err:      geo.ErrProviderUnavailable,
		}
	case statusCode == http.StatusTooManyRequests:
		return &geo.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "search API rate limit exceeded",
			Err:      geo.ErrProviderUnavailable,
		}
	case statusCode >= 500:
		return &geo.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "search provider is temporarily unavailable",
			Err:      geo.ErrProviderUnavailable,
		}
	default:
		return &geo.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("search provider returned status %d", statusCode),
			Err:      geo.ErrNotFound,
		}
	}
}
