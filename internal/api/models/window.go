package models

import (
	"fmt"
	"time"

	"github.com/departwise/departwise/internal/timewindow"
)

// Hour window defaults applied when a request omits them.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 18
)

// WindowFields are the hour window fields shared by planning requests.
// Nil hours take the defaults.
type WindowFields struct {
	StartHour *int   `json:"start_hour,omitempty"`
	EndHour   *int   `json:"end_hour,omitempty"`
	Date      string `json:"date,omitempty"`
}

// Hours returns the start and end hour with defaults applied.
func (w WindowFields) Hours() (int, int) {
	start, end := DefaultStartHour, DefaultEndHour
	if w.StartHour != nil {
		start = *w.StartHour
	}
	if w.EndHour != nil {
		end = *w.EndHour
	}
	return start, end
}

// Validate returns field errors for out-of-range hours and malformed dates.
func (w WindowFields) Validate() []FieldError {
	var errs []FieldError
	start, end := w.Hours()
	if start < 0 || start > 23 {
		errs = append(errs, FieldError{Field: "start_hour", Message: fmt.Sprintf("must be between 0 and 23, got %d", start), Code: "OUT_OF_RANGE"})
	}
	if end < 0 || end > 23 {
		errs = append(errs, FieldError{Field: "end_hour", Message: fmt.Sprintf("must be between 0 and 23, got %d", end), Code: "OUT_OF_RANGE"})
	}
	if w.Date != "" {
		if _, err := timewindow.ParseDate(w.Date, time.UTC); err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "must be a date in YYYY-MM-DD format", Code: "INVALID_FORMAT"})
		}
	}
	return errs
}

// Window builds the TimeWindow. Call Validate first; Window only reports the
// first problem it meets.
func (w WindowFields) Window() (timewindow.TimeWindow, error) {
	var target *time.Time
	if w.Date != "" {
		d, err := timewindow.ParseDate(w.Date, time.UTC)
		if err != nil {
			return timewindow.TimeWindow{}, err
		}
		target = &d
	}
	start, end := w.Hours()
	return timewindow.New(start, end, target)
}
