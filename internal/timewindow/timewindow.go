// Package timewindow models an hour-of-day departure window and the concrete
// instants derived from it.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted for target dates.
const DateLayout = "2006-01-02"

// ErrInvalidHour is returned for hours outside 0-23.
var ErrInvalidHour = errors.New("hour must be between 0 and 23")

// TimeWindow is an inclusive range of departure hours, optionally pinned to a date.
// When EndHour < StartHour the window runs to the end of the day (StartHour..23);
// it never crosses midnight.
type TimeWindow struct {
	StartHour int
	EndHour   int
	// TargetDate pins the window to a calendar date. Only its year, month
	// and day are used. Nil means "the next occurrence of each hour".
	TargetDate *time.Time
}

// New returns a validated window.
func New(startHour, endHour int, targetDate *time.Time) (TimeWindow, error) {
	w := TimeWindow{StartHour: startHour, EndHour: endHour, TargetDate: targetDate}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

// Validate checks both hours are within 0-23.
func (w TimeWindow) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("start hour %d: %w", w.StartHour, ErrInvalidHour)
	}
	if w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("end hour %d: %w", w.EndHour, ErrInvalidHour)
	}
	return nil
}

// lastHour is the final hour of the window after applying the wrap policy.
func (w TimeWindow) lastHour() int {
	if w.EndHour >= w.StartHour {
		return w.EndHour
	}
	return 23
}

// Hours enumerates the window's hours in ascending order.
func (w TimeWindow) Hours() []int {
	last := w.lastHour()
	hours := make([]int, 0, last-w.StartHour+1)
	for h := w.StartHour; h <= last; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Contains reports whether hour lies in [StartHour, EndHour]. Unlike Hours it
// does not apply the wrap policy, so a window with StartHour > EndHour
// contains no hour.
func (w TimeWindow) Contains(hour int) bool {
	return hour >= w.StartHour && hour <= w.EndHour
}

// DepartureInstant returns the instant to query for hour. With a target date it
// is that date at the hour; otherwise today at the hour, moved to tomorrow if
// that is already before now. The result is in now's location.
func (w TimeWindow) DepartureInstant(hour int, now time.Time) time.Time {
	loc := now.Location()
	if w.TargetDate != nil {
		y, m, d := w.TargetDate.Date()
		return time.Date(y, m, d, hour, 0, 0, 0, loc)
	}

	y, m, d := now.Date()
	instant := time.Date(y, m, d, hour, 0, 0, 0, loc)
	if instant.Before(now) {
		instant = instant.AddDate(0, 0, 1)
	}
	return instant
}

// DaysAhead returns whole calendar days from now's date to the target date,
// or 0 when the window has no target date.
func (w TimeWindow) DaysAhead(now time.Time) int {
	if w.TargetDate == nil {
		return 0
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := w.TargetDate.Date()
	target := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// SameDate reports whether a and b fall on the same calendar date in their own locations.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// HourLabel renders an hour as "8 AM" / "1 PM"; 0 and 12 both render as 12.
func HourLabel(hour int) string {
	h12, period := twelveHour(hour)
	return fmt.Sprintf("%d %s", h12, period)
}

// ClockLabel renders an hour as "8:00 AM".
func ClockLabel(hour int) string {
	h12, period := twelveHour(hour)
	return fmt.Sprintf("%d:00 %s", h12, period)
}

func twelveHour(hour int) (int, string) {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return h12, period
}
