// Package dates normalizes client-supplied dates for availability and
// pricing. All comparisons in the booking domain happen at day granularity
// in UTC so that the guest's timezone never shifts a night count.
package dates

import (
	"time"
)

const DayFormat = "2006-01-02"

// ParseDay parses a date-only string (YYYY-MM-DD) into UTC midnight.
// RFC3339 timestamps are accepted too and truncated to their UTC day.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DayFormat, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return UTCDay(t), true
	}
	return time.Time{}, false
}

// UTCDay truncates t to midnight UTC.
func UTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of chargeable nights between checkIn and
// checkOut, both truncated to UTC days first. The count is the ceiling of
// the day difference, floored at 1 so same-day or inverted input never
// produces a zero or negative charge.
func Nights(checkIn, checkOut time.Time) int {
	in := UTCDay(checkIn)
	out := UTCDay(checkOut)

	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// Overlaps reports whether two half-open ranges [start1, end1) and
// [start2, end2) intersect. Back-to-back ranges do not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}
