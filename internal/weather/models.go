package weather

import (
	"context"
	"errors"
	"time"

	"github.com/departwise/departwise/internal/geo"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoForecastData      = errors.New("no forecast data available")
	ErrNoDataForWindow     = errors.New("no data for the selected time window")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Provider defines the interface for hourly forecast providers.
type Provider interface {
	// HourlyForecast returns hourly samples from now for the given number of days.
	HourlyForecast(ctx context.Context, c geo.Coordinate, days int) (*Forecast, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Forecast is an hourly time series for one location.
type Forecast struct {
	Hourly    []HourlySample
	Provider  string
	FetchedAt time.Time
}

// HourlySample is a single forecast hour. Time is in the forecast location's zone.
type HourlySample struct {
	Time        time.Time
	Temperature float64 // °C
	WindSpeed   float64 // km/h
	Humidity    float64 // %
	WeatherCode int     // WMO code
}

// ForecastWindowSummary is the dominant condition and averages over a window.
type ForecastWindowSummary struct {
	Condition     Condition
	Label         string
	Emoji         string
	Message       string
	Image         string
	Temperature   float64
	WindSpeed     float64
	Humidity      float64
	HoursAnalyzed int
}

// Error provides detailed error information from the weather provider.
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
