package timeutil

import (
	"time"
)

// Vienna is the local business timezone. Visit dates, NARA day grouping and
// wave delivery windows are all interpreted in it.
var Vienna *time.Location

func init() {
	var err error
	Vienna, err = time.LoadLocation("Europe/Vienna")
	if err != nil {
		// Fallback: fixed CET if the tzdata is not available
		Vienna = time.FixedZone("CET", 60*60)
	}
}

// Now returns the current time in Vienna local time
func Now() time.Time {
	return time.Now().In(Vienna)
}

// In converts any time to Vienna local time
func In(t time.Time) time.Time {
	return t.In(Vienna)
}

// ParseLocal parses a time string in Vienna local time
func ParseLocal(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, Vienna)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns the start of day (00:00:00) in Vienna for the given time
func StartOfDay(t time.Time) time.Time {
	local := t.In(Vienna)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Vienna)
}

// EndOfDay returns the end of day (23:59:59) in Vienna for the given time
func EndOfDay(t time.Time) time.Time {
	local := t.In(Vienna)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, Vienna)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)
