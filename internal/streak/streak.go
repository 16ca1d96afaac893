// Package streak computes completion streaks from check-in dates.
//
// Dates are compared as calendar days. A date's day is read in the date's own
// location; stored values are never converted between zones. Days are keyed
// as UTC midnights, which keeps day arithmetic free of DST shifts.
package streak

import (
	"slices"
	"time"
)

const hoursPerDay = 24

// Day strips the time of day from t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Compute returns the current streak: the number of consecutive days, counted
// backward from the most recent logged day, that have at least one log.
// The streak is alive only while the most recent day is today or yesterday
// relative to now; otherwise it is 0.
func Compute(dates []time.Time, now time.Time) int {
	days := distinctDays(dates)
	if len(days) == 0 {
		return 0
	}
	slices.Reverse(days)

	lastDay := days[0]
	if daysBetween(lastDay, Day(now)) > 1 {
		return 0
	}

	count := 0
	expected := lastDay
	for _, d := range days {
		if !d.Equal(expected) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

// Longest returns the longest run of consecutive logged days ever recorded.
func Longest(dates []time.Time) int {
	days := distinctDays(dates)
	if len(days) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// distinctDays normalizes dates and returns each day once, ascending.
func distinctDays(dates []time.Time) []time.Time {
	days := make([]time.Time, 0, len(dates))
	for _, t := range dates {
		days = append(days, Day(t))
	}
	slices.SortFunc(days, func(a, b time.Time) int {
		return a.Compare(b)
	})
	return slices.CompactFunc(days, func(a, b time.Time) bool {
		return a.Equal(b)
	})
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / hoursPerDay)
}
