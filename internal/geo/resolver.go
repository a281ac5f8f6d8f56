package geo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultReverseTimeout bounds a single reverse lookup.
const DefaultReverseTimeout = 5 * time.Second

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// Provider is the search/geocode provider.
	Provider Provider

	// Logger for resolver operations.
	Logger zerolog.Logger

	// ReverseTimeout bounds each reverse lookup (default: 5 seconds).
	ReverseTimeout time.Duration
}

// Resolver turns place names into coordinates and coordinates into locality names.
type Resolver struct {
	provider       Provider
	logger         zerolog.Logger
	reverseTimeout time.Duration
}

// NewResolver creates a new resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	reverseTimeout := cfg.ReverseTimeout
	if reverseTimeout == 0 {
		reverseTimeout = DefaultReverseTimeout
	}

	return &Resolver{
		provider:       cfg.Provider,
		logger:         cfg.Logger,
		reverseTimeout: reverseTimeout,
	}
}

// Resolve returns the position of the top-ranked match for placeName.
// Every failure, including provider errors, is reported as ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, placeName string) (Coordinate, error) {
	if placeName == "" {
		return Coordinate{}, ErrNotFound
	}

	places, err := r.provider.Search(ctx, placeName)
	if err != nil {
		r.logger.Debug().Err(err).
			Str("query", placeName).
			Str("provider", r.provider.Name()).
			Msg("place search failed")
		return Coordinate{}, ErrNotFound
	}
	if len(places) == 0 {
		r.logger.Debug().
			Str("query", placeName).
			Msg("place search returned no results")
		return Coordinate{}, ErrNotFound
	}

	return places[0].Position, nil
}

// ReverseResolve returns the most specific locality name for a coordinate.
// The boolean is false when the name is unknown for any reason.
func (r *Resolver) ReverseResolve(ctx context.Context, c Coordinate) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.reverseTimeout)
	defer cancel()

	addresses, err := r.provider.ReverseGeocode(ctx, c)
	if err != nil {
		r.logger.Debug().Err(err).
			Float64("lat", c.Lat).
			Float64("lon", c.Lon).
			Msg("reverse geocode failed")
		return "", false
	}
	if len(addresses) == 0 {
		return "", false
	}

	name := addresses[0].LocalityName()
	return name, name != ""
}
