package schoolyear

import (
	"testing"
	"time"
)

var septemberFirst = Epoch{Month: time.September, Day: 1}

func TestCurrent_BeforeEpochBelongsToPreviousYear(t *testing.T) {
	now := time.Date(2024, time.August, 31, 23, 59, 59, 0, time.UTC)
	if got := Current(now, septemberFirst); got != 2023 {
		t.Errorf("Current(2024-08-31) = %d, want 2023", got)
	}
}

func TestCurrent_OnEpochBelongsToNewYear(t *testing.T) {
	now := time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC)
	if got := Current(now, septemberFirst); got != 2024 {
		t.Errorf("Current(2024-09-01) = %d, want 2024", got)
	}
}

func TestCurrent_AfterEpoch(t *testing.T) {
	now := time.Date(2024, time.December, 15, 10, 0, 0, 0, time.UTC)
	if got := Current(now, septemberFirst); got != 2024 {
		t.Errorf("Current(2024-12-15) = %d, want 2024", got)
	}
}

func TestCurrent_CustomEpoch(t *testing.T) {
	epoch := Epoch{Month: time.July, Day: 15}
	now := time.Date(2024, time.July, 14, 12, 0, 0, 0, time.UTC)
	if got := Current(now, epoch); got != 2023 {
		t.Errorf("Current(2024-07-14, epoch Jul 15) = %d, want 2023", got)
	}
}

func TestString(t *testing.T) {
	if got := Year(2024).String(); got != "2024-2025" {
		t.Errorf("Year(2024).String() = %q, want %q", got, "2024-2025")
	}
}

func TestValid_Boundaries(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		year Year
		want bool
	}{
		{2014, true},  // exactly 10 years back
		{2013, false}, // 11 years back
		{2029, true},  // exactly 5 years ahead
		{2030, false}, // 6 years ahead
		{2024, true},
	}
	for _, tc := range cases {
		if got := tc.year.Valid(now); got != tc.want {
			t.Errorf("Year(%d).Valid(2024) = %v, want %v", tc.year, got, tc.want)
		}
	}
}
