package clockin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock-backend/internal/model"
)

func TestWeekHistoryGrouping(t *testing.T) {
	env := newTestService(t, nil)

	rows := []model.ClockInEvent{
		// Mixed structured and free-text times, inserted out of order.
		{EventID: "e-1", WorkerID: "w-1", Date: "2026-03-02", ClockTime: "13:00:00"},
		{EventID: "e-2", WorkerID: "w-1", Date: "2026-03-02", ClockTime: "9:05"},
		{EventID: "e-3", WorkerID: "w-1", Date: "2026-03-03", ClockTime: "08:45:12"},
		{EventID: "e-4", WorkerID: "w-1", Date: "2026-03-04", ClockTime: "7:30 am"},
		// Malformed legacy rows must be dropped, not fail the call. The date
		// below sorts inside the week range but does not parse.
		{EventID: "e-5", WorkerID: "w-1", Date: "2026-03-05 (edited)", ClockTime: "09:00:00"},
		{EventID: "e-6", WorkerID: "w-1", Date: "2026-03-03", ClockTime: "sick day"},
		// Another worker's row is out of range for w-1's query.
		{EventID: "e-7", WorkerID: "w-2", Date: "2026-03-02", ClockTime: "09:00:00"},
	}
	require.NoError(t, env.db.Create(&rows).Error)

	week, err := env.svc.WeekHistory(context.Background(), "w-1", at(9, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"2026-03-02": {"09:05:00", "13:00:00"},
		"2026-03-03": {"08:45:12"},
		"2026-03-04": {"07:30:00"},
	}, week)
}

func TestWeekHistoryExcludesOtherWeeks(t *testing.T) {
	env := newTestService(t, nil)

	rows := []model.ClockInEvent{
		{EventID: "e-1", WorkerID: "w-1", Date: "2026-02-27", ClockTime: "09:00:00"}, // prior week
		{EventID: "e-2", WorkerID: "w-1", Date: "2026-03-08", ClockTime: "09:00:00"}, // in-week Sunday
		{EventID: "e-3", WorkerID: "w-1", Date: "2026-03-09", ClockTime: "09:00:00"}, // next week start
	}
	require.NoError(t, env.db.Create(&rows).Error)

	// 2026-03-02 is a Monday, the configured week start.
	week, err := env.svc.WeekHistory(context.Background(), "w-1", at(9, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"2026-03-08": {"09:00:00"}}, week)
}

func TestWeekHistoryEmpty(t *testing.T) {
	env := newTestService(t, nil)

	week, err := env.svc.WeekHistory(context.Background(), "w-1", at(9, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, week)
}

func TestWeekStart(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		startDay time.Weekday
		expected string
	}{
		{
			name:     "Monday stays put",
			now:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			startDay: time.Monday,
			expected: "2026-03-02",
		},
		{
			name:     "Sunday belongs to the week that began the prior Monday",
			now:      time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			startDay: time.Monday,
			expected: "2026-03-02",
		},
		{
			name:     "Sunday-start weeks roll on Sunday",
			now:      time.Date(2026, 3, 8, 0, 1, 0, 0, time.UTC),
			startDay: time.Sunday,
			expected: "2026-03-08",
		},
		{
			name:     "Midweek with Sunday start",
			now:      time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
			startDay: time.Sunday,
			expected: "2026-03-01",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := weekStart(tc.now, tc.startDay)
			assert.Equal(t, tc.expected, got.Format("2006-01-02"))
			assert.Equal(t, 0, got.Hour())
		})
	}
}
