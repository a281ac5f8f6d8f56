// Package app wires providers, resilience and the planner from configuration.
// The API server and the CLI share it.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/departwise/departwise/internal/config"
	"github.com/departwise/departwise/internal/geo"
	geotomtom "github.com/departwise/departwise/internal/geo/tomtom"
	"github.com/departwise/departwise/internal/planner"
	"github.com/departwise/departwise/internal/provider/resilience"
	"github.com/departwise/departwise/internal/routing"
	routetomtom "github.com/departwise/departwise/internal/routing/tomtom"
	"github.com/departwise/departwise/internal/weather"
	"github.com/departwise/departwise/internal/weather/openmeteo"
)

// App holds the wired services.
type App struct {
	Planner  *planner.Service
	Resolver *geo.Resolver
	Registry *resilience.Registry
}

// New builds the provider clients and planning services. Telemetry must
// already be initialized so provider metrics bind to the real meter.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	metrics, err := resilience.NewCallMetrics()
	if err != nil {
		return nil, fmt.Errorf("provider metrics: %w", err)
	}
	registry := resilience.NewRegistry()

	httpClient := func(name string) *resilience.Client {
		c := resilience.DefaultClientConfig(name)
		c.Timeout = cfg.Provider.Timeout
		c.MaxRetries = uint64(cfg.Provider.MaxRetries)
		c.Registry = registry
		c.Metrics = metrics
		c.Logger = logger.With().Str("provider", name).Logger()
		return resilience.NewClient(c)
	}

	search := geotomtom.NewClient(geotomtom.ClientConfig{
		APIKey:     cfg.TomTom.APIKey,
		BaseURL:    cfg.TomTom.BaseURL,
		HTTPClient: httpClient(geotomtom.ProviderName),
		Logger:     logger,
	})
	directions := routetomtom.NewClient(routetomtom.ClientConfig{
		APIKey:     cfg.TomTom.APIKey,
		BaseURL:    cfg.TomTom.BaseURL,
		HTTPClient: httpClient(routetomtom.ProviderName),
		Logger:     logger,
	})
	forecast := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    cfg.OpenMeteo.BaseURL,
		HTTPClient: httpClient(openmeteo.ProviderName),
		Logger:     logger,
	})

	resolver := geo.NewResolver(geo.ResolverConfig{
		Provider:       search,
		Logger:         logger,
		ReverseTimeout: cfg.Provider.ReverseTimeout,
	})

	svc := planner.NewService(planner.ServiceConfig{
		Geocoder: resolver,
		Routing:  directions,
		Summarizer: routing.NewSummarizer(routing.SummarizerConfig{
			Via:    resolver,
			Logger: logger,
		}),
		Weather: weather.NewAggregator(weather.AggregatorConfig{
			Provider: forecast,
			Logger:   logger,
		}),
		Logger:            logger,
		QueryTimeout:      cfg.Planner.QueryTimeout,
		MaxConcurrency:    cfg.Planner.MaxConcurrency,
		DefaultEfficiency: cfg.Planner.DefaultEfficiency,
	})

	return &App{
		Planner:  svc,
		Resolver: resolver,
		Registry: registry,
	}, nil
}

// ParseLevel parses a log level name, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
