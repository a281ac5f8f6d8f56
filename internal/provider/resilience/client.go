package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Predefined errors for resilient operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// DefaultTimeout bounds each outbound call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies the provider for the breaker, registry and metrics.
	Name string

	// Timeout bounds every individual HTTP call.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxRetries is the number of extra attempts after a transient failure.
	// Default: 0 (a failed call is reported to the caller as-is)
	MaxRetries uint64

	// InitialInterval is the first backoff interval when retries are enabled.
	// Default: 100ms
	InitialInterval time.Duration

	// MaxInterval caps the backoff interval when retries are enabled.
	// Default: 2 seconds
	MaxInterval time.Duration

	// CircuitBreaker is the breaker configuration.
	// If nil, DefaultCircuitBreakerConfig is used.
	CircuitBreaker *CircuitBreakerConfig

	// Registry receives the client and its call outcomes (optional).
	Registry *Registry

	// Metrics records call duration and outcome (optional).
	Metrics *CallMetrics

	// Logger for breaker state changes.
	Logger zerolog.Logger
}

// DefaultClientConfig returns the defaults for a provider client.
func DefaultClientConfig(name string) ClientConfig {
	cbConfig := DefaultCircuitBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         DefaultTimeout,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		CircuitBreaker:  &cbConfig,
		Logger:          zerolog.Nop(),
	}
}

// Client is an HTTP client with a per-call timeout and circuit breaker.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker[*http.Response]
	config         ClientConfig
}

// NewClient creates a new resilient HTTP client. When cfg.Registry is set the
// client registers itself under cfg.Name.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}

	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}
	if cbConfig.OnStateChange == nil {
		logger := cfg.Logger
		cbConfig.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		}
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: NewCircuitBreaker[*http.Response](cbConfig), //nolint:bodyclose // type param, not response
		config:         cfg,
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, c)
	}

	return c
}

// Name returns the provider name the client was configured with.
func (c *Client) Name() string {
	return c.config.Name
}

// Do executes req through the circuit breaker. 5xx responses count as
// breaker failures but are still returned to the caller for mapping.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext executes req with the given context.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.execute(ctx, req)
	c.record(time.Since(start), resp, err)
	return resp, err
}

func (c *Client) execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastResp *http.Response

	operation := func() error {
		resp, err := c.circuitBreaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				if lastResp != nil {
					lastResp.Body.Close()
				}
				lastResp = resp
			}
			return err
		}
		lastResp = resp
		return nil
	}

	if c.config.MaxRetries == 0 {
		if err := operation(); err != nil {
			return c.unwrapFailure(lastResp, err)
		}
		return lastResp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return c.unwrapFailure(lastResp, err)
	}
	return lastResp, nil
}

// unwrapFailure returns the last 5xx response when there is one, so provider
// clients can map the status code themselves.
func (c *Client) unwrapFailure(lastResp *http.Response, err error) (*http.Response, error) {
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	if lastResp != nil && !errors.Is(err, ErrCircuitOpen) {
		return lastResp, nil
	}
	if lastResp != nil {
		lastResp.Body.Close()
	}
	return nil, err
}

func (c *Client) record(elapsed time.Duration, resp *http.Response, err error) {
	failure := err
	if failure == nil && resp != nil && resp.StatusCode >= 500 {
		failure = &ServerError{StatusCode: resp.StatusCode}
	}

	if c.config.Registry != nil {
		if failure != nil {
			c.config.Registry.RecordFailure(c.config.Name, failure)
		} else {
			c.config.Registry.RecordSuccess(c.config.Name)
		}
	}
	c.config.Metrics.Record(c.config.Name, elapsed, failure)
}

// ServerError represents an HTTP 5xx server error.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.circuitBreaker.State()
}

// CircuitBreakerCounts returns the current counts of the circuit breaker.
func (c *Client) CircuitBreakerCounts() gobreaker.Counts {
	return c.circuitBreaker.Counts()
}
