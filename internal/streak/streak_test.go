package streak_test

import (
	"testing"
	"time"

	"github.com/Yassen717/HabitFlow/internal/streak"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, time.March, 15, 18, 30, 0, 0, time.Local)

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestCompute(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc   string
		Dates  []time.Time
		Streak int
	}{
		{
			Desc:   "no logs",
			Dates:  nil,
			Streak: 0,
		},
		{
			Desc:   "only today",
			Dates:  []time.Time{daysAgo(0)},
			Streak: 1,
		},
		{
			Desc:   "two logs today count once",
			Dates:  []time.Time{daysAgo(0), daysAgo(0).Add(-time.Hour)},
			Streak: 1,
		},
		{
			Desc:   "three consecutive days",
			Dates:  []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)},
			Streak: 3,
		},
		{
			Desc:   "unordered input",
			Dates:  []time.Time{daysAgo(2), daysAgo(0), daysAgo(1)},
			Streak: 3,
		},
		{
			Desc:   "yesterday only keeps streak alive",
			Dates:  []time.Time{daysAgo(1)},
			Streak: 1,
		},
		{
			Desc:   "last log two days ago breaks streak",
			Dates:  []time.Time{daysAgo(2), daysAgo(5)},
			Streak: 0,
		},
		{
			Desc:   "old consecutive run does not count",
			Dates:  []time.Time{daysAgo(3), daysAgo(4), daysAgo(5), daysAgo(6)},
			Streak: 0,
		},
		{
			Desc:   "gap stops the walk",
			Dates:  []time.Time{daysAgo(0), daysAgo(1), daysAgo(3), daysAgo(4)},
			Streak: 2,
		},
		{
			Desc:   "duplicates inside the run do not break it",
			Dates:  []time.Time{daysAgo(1), daysAgo(1), daysAgo(2), daysAgo(2), daysAgo(3)},
			Streak: 3,
		},
		{
			Desc: "time of day is ignored",
			Dates: []time.Time{
				time.Date(2025, time.March, 15, 0, 0, 1, 0, time.Local),
				time.Date(2025, time.March, 14, 23, 59, 59, 0, time.Local),
			},
			Streak: 2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Streak, streak.Compute(tc.Dates, now))
		})
	}
}

func TestComputeDuplicateDayEqualsSingle(t *testing.T) {
	t.Parallel()
	single := streak.Compute([]time.Time{now}, now)
	double := streak.Compute([]time.Time{now, now}, now)
	assert.Equal(t, single, double)
}

func TestComputeStoredDates(t *testing.T) {
	t.Parallel()
	// DATE columns come back as UTC midnights; they must line up with a local "now"
	stored := []time.Time{
		time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 2, streak.Compute(stored, now))
}

func TestComputeAcrossMonthBoundary(t *testing.T) {
	t.Parallel()
	march2 := time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 4, streak.Compute(dates, march2))
}

func TestLongest(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc    string
		Dates   []time.Time
		Longest int
	}{
		{Desc: "no logs", Dates: nil, Longest: 0},
		{Desc: "single day", Dates: []time.Time{daysAgo(10)}, Longest: 1},
		{
			Desc:    "best run in the past",
			Dates:   []time.Time{daysAgo(0), daysAgo(10), daysAgo(11), daysAgo(12), daysAgo(20)},
			Longest: 3,
		},
		{
			Desc:    "duplicates ignored",
			Dates:   []time.Time{daysAgo(3), daysAgo(3), daysAgo(2)},
			Longest: 2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Longest, streak.Longest(tc.Dates))
		})
	}
}

func TestDay(t *testing.T) {
	t.Parallel()
	assert.Equal(t, streak.Day(now), streak.Day(now.Add(-time.Hour)))
	assert.NotEqual(t, streak.Day(now), streak.Day(daysAgo(1)))
}
