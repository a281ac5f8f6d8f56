package planner

import (
	"errors"
	"fmt"
)

// Kind groups planner failures by how callers should treat them.
type Kind int

// Failure kinds.
const (
	// KindLookup means a place or coordinate could not be resolved.
	KindLookup Kind = iota + 1
	// KindEmpty means providers answered but nothing usable came back.
	KindEmpty
	// KindProvider means an upstream provider failed outright.
	KindProvider
)

// Error codes carried by planner errors.
const (
	CodeLocationNotFound    = "LOCATION_NOT_FOUND"
	CodeInvalidLocations    = "INVALID_LOCATIONS"
	CodeNoRoute             = "NO_ROUTE"
	CodeNoBestTime          = "NO_BEST_TIME"
	CodeNoForecastData      = "NO_FORECAST_DATA"
	CodeNoWindowData        = "NO_WINDOW_DATA"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
)

// Caller-facing reasons.
const (
	ReasonInvalidLocations = "Invalid locations"
	ReasonNoRoute          = "No route found"
	ReasonNoBestTime       = "Could not calculate best time."
	ReasonNoForecastData   = "No forecast data available"
	ReasonNoWindowData     = "No data for the selected time window"
)

// ErrPlanning matches every *Error via errors.Is.
var ErrPlanning = errors.New("planning failed")

// Error is a structured planner failure. Reason is the short, stable string
// shown to callers.
type Error struct {
	Kind   Kind
	Code   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes every planner error match ErrPlanning.
func (e *Error) Is(target error) bool {
	return target == ErrPlanning
}

func locationNotFound(place string, err error) *Error {
	return &Error{
		Kind:   KindLookup,
		Code:   CodeLocationNotFound,
		Reason: fmt.Sprintf("Could not find location: %s", place),
		Err:    err,
	}
}

func invalidLocations(err error) *Error {
	return &Error{Kind: KindLookup, Code: CodeInvalidLocations, Reason: ReasonInvalidLocations, Err: err}
}

func providerUnavailable(reason string, err error) *Error {
	return &Error{Kind: KindProvider, Code: CodeProviderUnavailable, Reason: reason, Err: err}
}
