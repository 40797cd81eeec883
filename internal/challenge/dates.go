package challenge

import (
	"time"
)

// DateLayout is the ISO calendar date format used for streak and challenge dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Day truncates t to its calendar date, read in t's own location, as UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(now.In(loc))
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// DaysBetween returns the number of calendar days from a to b. It is
// negative when b is before a. A time.Duration overflows past about 292
// years, so days are counted in Unix seconds.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}
