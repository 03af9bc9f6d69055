package storage

import (
	"fmt"
	"time"
)

// Fixed-width UTC text: lexical order equals chronological order.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t the way foods.date stores it (millisecond precision, UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp reads a stored foods.date value.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err == nil {
		return t, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339Nano, s); rfcErr == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
}

// DayBounds returns 00:00:00.000 and 23:59:59.999 of day's calendar date in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}
