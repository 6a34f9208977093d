// ABOUTME: Time utility functions for parsing configured dates and formatting listings
// ABOUTME: Dates without a zone are read in local time, matching the drip-feed start

package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted by ParseDate, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LongDateFormat renders dates like "10 February 2026".
const LongDateFormat = "2 January 2006"

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfToday returns midnight (00:00:00) of the current day in local time
func StartOfToday() time.Time {
	return StartOfDay(time.Now())
}

// ParseDate parses s as a date or timestamp. Values without a zone are
// interpreted in local time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if s == "today" {
		return StartOfToday(), nil
	}
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC3339", s)
}

// FormatLong formats t as "2 January 2006".
func FormatLong(t time.Time) string {
	return t.Format(LongDateFormat)
}
