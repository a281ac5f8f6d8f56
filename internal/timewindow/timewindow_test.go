package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindow_Hours(t *testing.T) {
	tests := []struct {
		name  string
		start int
		end   int
		want  []int
	}{
		{"simple range", 8, 10, []int{8, 9, 10}},
		{"single hour", 7, 7, []int{7}},
		{"wraps to end of day only", 20, 6, []int{20, 21, 22, 23}},
		{"full day", 0, 23, func() []int {
			h := make([]int, 24)
			for i := range h {
				h[i] = i
			}
			return h
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := TimeWindow{StartHour: tt.start, EndHour: tt.end}
			assert.Equal(t, tt.want, w.Hours())
		})
	}
}

func TestTimeWindow_Contains(t *testing.T) {
	w := TimeWindow{StartHour: 20, EndHour: 6}
	for _, h := range []int{0, 3, 6, 19, 20, 23} {
		assert.False(t, w.Contains(h), "hour %d", h)
	}
	assert.Equal(t, []int{20, 21, 22, 23}, w.Hours(), "enumeration still truncates at midnight")

	w = TimeWindow{StartHour: 8, EndHour: 10}
	assert.True(t, w.Contains(8))
	assert.True(t, w.Contains(10))
	assert.False(t, w.Contains(11))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(8, 10, nil)
	require.NoError(t, err)

	_, err = New(-1, 10, nil)
	assert.ErrorIs(t, err, ErrInvalidHour)

	_, err = New(8, 24, nil)
	assert.ErrorIs(t, err, ErrInvalidHour)
}

func TestTimeWindow_DepartureInstant(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 10, 14, 9, 30, 0, 0, loc)

	t.Run("later today", func(t *testing.T) {
		w := TimeWindow{StartHour: 10, EndHour: 12}
		assert.Equal(t, time.Date(2026, 10, 14, 10, 0, 0, 0, loc), w.DepartureInstant(10, now))
	})

	t.Run("already past rolls to tomorrow", func(t *testing.T) {
		w := TimeWindow{StartHour: 8, EndHour: 12}
		assert.Equal(t, time.Date(2026, 10, 15, 9, 0, 0, 0, loc), w.DepartureInstant(9, now))
	})

	t.Run("exactly now is not rolled", func(t *testing.T) {
		onTheHour := time.Date(2026, 10, 14, 9, 0, 0, 0, loc)
		w := TimeWindow{StartHour: 9, EndHour: 9}
		assert.Equal(t, onTheHour, w.DepartureInstant(9, onTheHour))
	})

	t.Run("target date", func(t *testing.T) {
		date := time.Date(2026, 10, 20, 0, 0, 0, 0, loc)
		w := TimeWindow{StartHour: 6, EndHour: 9, TargetDate: &date}
		assert.Equal(t, time.Date(2026, 10, 20, 6, 0, 0, 0, loc), w.DepartureInstant(6, now))
	})
}

func TestTimeWindow_DaysAhead(t *testing.T) {
	now := time.Date(2026, 10, 14, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, TimeWindow{}.DaysAhead(now))

	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, TimeWindow{TargetDate: &date}.DaysAhead(now))

	past := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, -2, TimeWindow{TargetDate: &past}.DaysAhead(now))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-20", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("20/10/2026", time.UTC)
	assert.Error(t, err)
}

func TestHourLabel(t *testing.T) {
	tests := map[int]string{
		0:  "12 AM",
		1:  "1 AM",
		8:  "8 AM",
		11: "11 AM",
		12: "12 PM",
		13: "1 PM",
		23: "11 PM",
	}
	for hour, want := range tests {
		assert.Equal(t, want, HourLabel(hour), "hour %d", hour)
	}
}

func TestClockLabel(t *testing.T) {
	assert.Equal(t, "12:00 AM", ClockLabel(0))
	assert.Equal(t, "9:00 AM", ClockLabel(9))
	assert.Equal(t, "12:00 PM", ClockLabel(12))
	assert.Equal(t, "6:00 PM", ClockLabel(18))
}
