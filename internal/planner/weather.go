package planner

import (
	"context"
	"errors"

	"github.com/departwise/departwise/internal/timewindow"
	"github.com/departwise/departwise/internal/weather"
)

// WeatherRequest asks for the expected weather at a destination over a window.
type WeatherRequest struct {
	Destination string
	Window      timewindow.TimeWindow
}

// Weather geocodes the destination and summarizes its forecast over the window.
func (s *Service) Weather(ctx context.Context, req WeatherRequest) (*weather.ForecastWindowSummary, error) {
	ctx, span := s.tracer.Start(ctx, "planner.Weather")
	defer span.End()

	coord, err := s.geocoder.Resolve(ctx, req.Destination)
	if err != nil {
		return nil, locationNotFound(req.Destination, err)
	}

	summary, err := s.weather.Summarize(ctx, coord, req.Window)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("destination", req.Destination).
			Msg("weather summary failed")
		return nil, weatherError(err)
	}
	return summary, nil
}

func weatherError(err error) *Error {
	switch {
	case errors.Is(err, weather.ErrNoForecastData):
		return &Error{Kind: KindEmpty, Code: CodeNoForecastData, Reason: ReasonNoForecastData, Err: err}
	case errors.Is(err, weather.ErrNoDataForWindow):
		return &Error{Kind: KindEmpty, Code: CodeNoWindowData, Reason: ReasonNoWindowData, Err: err}
	default:
		return providerUnavailable("Weather provider unavailable", err)
	}
}
