package utils

import (
	"fmt"
	"time"
)

// DateKeyLayout is the yyMMdd prefix embedded in event and ticket identifiers.
const DateKeyLayout = "060102"

// DateKey formats a timestamp as the 6-digit prefix used in derived IDs.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a 6-digit yyMMdd prefix back into a day-granularity
// date. Every two-digit year maps into 2000-2099; the bare "06" layout would
// send 69-99 to the 1900s and break the round trip with DateKey for dates
// from 2069 on.
func ParseDateKey(s string) (time.Time, error) {
	if len(s) != len(DateKeyLayout) {
		return time.Time{}, fmt.Errorf("date key %q is not %d digits", s, len(DateKeyLayout))
	}
	return time.Parse("20060102", "20"+s)
}

// TruncateToDay zeroes the time-of-day components, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
