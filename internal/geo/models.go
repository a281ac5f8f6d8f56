// Package geo resolves place names to coordinates and coordinates back to locality names.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for geocoding operations.
var (
	// ErrNotFound indicates the provider had no match for the query.
	ErrNotFound = errors.New("location not found")
	// ErrProviderUnavailable indicates the search provider could not be reached or answered badly.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	// ErrInvalidCoordinates indicates the provided coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// String formats the coordinate as "lat,lon", the form search and routing URLs expect.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// Validate checks that the coordinate is within valid ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]: %w", c.Lat, ErrInvalidCoordinates)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]: %w", c.Lon, ErrInvalidCoordinates)
	}
	return nil
}

// Place is a ranked search result.
type Place struct {
	Position Coordinate
	Label    string
}

// Address holds the locality fields a reverse lookup can return.
// Any of them may be empty.
type Address struct {
	MunicipalitySubdivision string
	Neighbourhood           string
	Municipality            string
	StreetName              string
}

// LocalityName returns the most specific non-empty locality field,
// or "" when the address carries none.
func (a Address) LocalityName() string {
	for _, name := range []string{
		a.MunicipalitySubdivision,
		a.Neighbourhood,
		a.Municipality,
		a.StreetName,
	} {
		if name != "" {
			return name
		}
	}
	return ""
}

// Provider defines the interface for search/geocode providers.
type Provider interface {
	// Search returns ranked candidates for free text. The first result is authoritative.
	Search(ctx context.Context, query string) ([]Place, error)
	// ReverseGeocode returns ranked addresses for a coordinate.
	ReverseGeocode(ctx context.Context, c Coordinate) ([]Address, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Error provides detailed error information from the geocoding provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
