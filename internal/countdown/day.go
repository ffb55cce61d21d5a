package countdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Day is a calendar day with no time component
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay parses "YYYY-MM-DD" text into a Day.
// Returns false if the text has the wrong shape, contains a non-numeric or zero
// field, or names a day that does not exist (e.g. 2025-02-30).
func ParseDay(text string) (Day, bool) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) != 3 {
		return Day{}, false
	}

	fields := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n == 0 {
			return Day{}, false
		}
		fields[i] = n
	}

	y, m, d := fields[0], fields[1], fields[2]

	// time.Date normalizes overflowed values, so a mismatch means the day doesn't exist
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return Day{}, false
	}

	return Day{Year: y, Month: time.Month(m), Day: d}, true
}

// Today returns the calendar day of now in loc
func Today(now time.Time, loc *time.Location) Day {
	return DayOf(now.In(loc))
}

// DayOf returns the calendar day of t in t's own location
func DayOf(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Weekday returns the day of the week, independent of any location
func (d Day) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// AddDays returns the day n days after d (n may be negative)
func (d Day) AddDays(n int) Day {
	return DayOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// IsZero reports whether d is the zero Day
func (d Day) IsZero() bool {
	return d == Day{}
}

// String formats the day as YYYY-MM-DD, the same shape ParseDay accepts
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DiffDays returns the signed number of days from today to target.
// Positive means target is in the future, zero means the same day.
// Days are counted on the civil calendar, independent of location and DST.
func DiffDays(today, target Day) int {
	return int(target.number() - today.number())
}

// number returns the day's offset from 1970-01-01 on the proleptic Gregorian calendar
func (d Day) number() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// MarshalText encodes the day as YYYY-MM-DD
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD day
func (d *Day) UnmarshalText(text []byte) error {
	parsed, ok := ParseDay(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDate, string(text))
	}
	*d = parsed
	return nil
}
