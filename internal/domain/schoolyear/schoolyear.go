// Package schoolyear holds the date arithmetic for mapping calendar dates
// onto school years. A school year is identified by the calendar year it
// starts in: 2024 denotes the 2024-2025 school year.
package schoolyear

import (
	"fmt"
	"time"
)

// Epoch is the configured start of the school year (e.g. September 1st).
type Epoch struct {
	Month time.Month
	Day   int
}

// Year identifies a school year by its starting calendar year.
type Year int

// Current returns the school year that contains now. Dates before the
// epoch of now's calendar year belong to the previous school year; the
// epoch instant itself belongs to the new one.
func Current(now time.Time, epoch Epoch) Year {
	start := time.Date(now.Year(), epoch.Month, epoch.Day, 0, 0, 0, 0, now.Location())
	if now.Before(start) {
		return Year(now.Year() - 1)
	}
	return Year(now.Year())
}

// Valid reports whether y is a plausible school year relative to now:
// no more than 10 years in the past or 5 years in the future, bounds inclusive.
func (y Year) Valid(now time.Time) bool {
	current := now.Year()
	return int(y) >= current-10 && int(y) <= current+5
}

// String formats the year as "2024-2025".
func (y Year) String() string {
	return fmt.Sprintf("%d-%d", int(y), int(y)+1)
}
