package weather

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/departwise/departwise/internal/geo"
	"github.com/departwise/departwise/internal/timewindow"
)

// Forecast horizon bounds in days.
const (
	defaultForecastDays  = 2
	minDatedForecastDays = 3
	maxForecastDays      = 16
)

// Override thresholds applied to the window averages.
const (
	coldBelowC        = 10.0
	windyAboveKmh     = 40.0
	pleasantMinC      = 15.0
	pleasantMaxC      = 30.0
	pleasantWindBelow = 25.0
)

// AggregatorConfig holds configuration for the aggregator.
type AggregatorConfig struct {
	// Provider is the hourly forecast provider.
	Provider Provider

	// Logger for aggregator operations.
	Logger zerolog.Logger

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Aggregator reduces an hourly forecast to the dominant condition over a window.
type Aggregator struct {
	provider Provider
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAggregator creates a new aggregator.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		now:      now,
	}
}

// Summarize fetches the forecast for c and summarizes it over window.
// It fails with ErrNoForecastData when the provider returns no samples and
// with ErrNoDataForWindow when none fall inside the window.
func (a *Aggregator) Summarize(ctx context.Context, c geo.Coordinate, window timewindow.TimeWindow) (*ForecastWindowSummary, error) {
	now := a.now()
	days := ForecastDays(window, now)

	forecast, err := a.provider.HourlyForecast(ctx, c, days)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	if forecast == nil || len(forecast.Hourly) == 0 {
		return nil, ErrNoForecastData
	}

	samples := FilterSamples(forecast.Hourly, window, now)
	if len(samples) == 0 {
		a.logger.Debug().
			Int("start_hour", window.StartHour).
			Int("end_hour", window.EndHour).
			Int("forecast_hours", len(forecast.Hourly)).
			Msg("no forecast hours in window")
		return nil, ErrNoDataForWindow
	}

	return Reduce(samples), nil
}

// ForecastDays sizes the forecast horizon: 2 days without a target date,
// otherwise max(3, min(daysAhead+2, 16)).
func ForecastDays(window timewindow.TimeWindow, now time.Time) int {
	if window.TargetDate == nil {
		return defaultForecastDays
	}
	days := window.DaysAhead(now) + 2
	if days > maxForecastDays {
		days = maxForecastDays
	}
	if days < minDatedForecastDays {
		days = minDatedForecastDays
	}
	return days
}

// FilterSamples keeps the samples inside window. With a target date only that
// date is considered. Without one, samples at or after now are kept, falling
// back to tomorrow's window when none remain today.
func FilterSamples(samples []HourlySample, window timewindow.TimeWindow, now time.Time) []HourlySample {
	if window.TargetDate != nil {
		return selectSamples(samples, func(s HourlySample) bool {
			return timewindow.SameDate(s.Time, *window.TargetDate) && window.Contains(s.Time.Hour())
		})
	}

	upcoming := selectSamples(samples, func(s HourlySample) bool {
		return !s.Time.Before(now) && window.Contains(s.Time.Hour())
	})
	if len(upcoming) > 0 {
		return upcoming
	}

	return selectSamples(samples, func(s HourlySample) bool {
		tomorrow := now.In(s.Time.Location()).AddDate(0, 0, 1)
		return timewindow.SameDate(s.Time, tomorrow) && window.Contains(s.Time.Hour())
	})
}

func selectSamples(samples []HourlySample, keep func(HourlySample) bool) []HourlySample {
	var out []HourlySample
	for _, s := range samples {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Reduce averages samples and picks the dominant condition. samples must be non-empty.
func Reduce(samples []HourlySample) *ForecastWindowSummary {
	var sumTemp, sumWind, sumHumidity float64
	for _, s := range samples {
		sumTemp += s.Temperature
		sumWind += s.WindSpeed
		sumHumidity += s.Humidity
	}
	n := float64(len(samples))
	avgTemp := round1(sumTemp / n)
	avgWind := round1(sumWind / n)
	avgHumidity := round1(sumHumidity / n)

	tally := make(Tally, len(conditionOrder))
	for _, s := range samples {
		tally[BucketForCode(s.WeatherCode)]++
	}
	applyOverrides(tally, avgTemp, avgWind, len(samples))

	condition := tally.Dominant()
	display := DisplayFor(condition)

	return &ForecastWindowSummary{
		Condition:     condition,
		Label:         display.Label,
		Emoji:         display.Emoji,
		Message:       display.Message,
		Image:         display.Image,
		Temperature:   avgTemp,
		WindSpeed:     avgWind,
		Humidity:      avgHumidity,
		HoursAnalyzed: len(samples),
	}
}

// applyOverrides adjusts the raw tally from the window averages. The rules are
// additive and run in order: cold, windy, then pleasant.
func applyOverrides(tally Tally, avgTemp, avgWind float64, n int) {
	if avgTemp < coldBelowC {
		tally[ConditionCold] += n
	}
	if avgWind > windyAboveKmh {
		tally[ConditionWindy] += n
	}
	if avgTemp >= pleasantMinC && avgTemp <= pleasantMaxC && avgWind < pleasantWindBelow &&
		tally[ConditionSunny] > 0 && tally[ConditionRainy] == 0 && tally[ConditionWindy] == 0 {
		// Sunny hours move to pleasant and pleasant also gains n.
		tally[ConditionPleasant] += tally[ConditionSunny] + n
		tally[ConditionSunny] = 0
	}
}

func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
