package clockin

import (
	"context"
	"log"
	"sort"
	"time"

	"timeclock-backend/internal/timefmt"
)

// WeekHistory returns the worker's events for the current business week,
// grouped by calendar date and sorted ascending by canonical time. Read-only;
// never touches the advisory locks.
func (s *Service) WeekHistory(ctx context.Context, workerID string, now time.Time) (map[string][]string, error) {
	start := weekStart(now.In(s.cfg.Location), s.cfg.WeekStart)
	from := timefmt.DateString(start)
	to := timefmt.DateString(start.AddDate(0, 0, 7))

	rows, err := s.ledger.QueryByWorkerAndRange(ctx, workerID, from, to)
	if err != nil {
		return nil, err
	}

	week := make(map[string][]string)
	for _, row := range rows {
		if _, err := timefmt.ParseDate(row.Date); err != nil {
			log.Printf("clockin: dropping row %s with unparsable date %q: %v", row.EventID, row.Date, err)
			continue
		}
		canon, err := timefmt.Canonicalize(row.ClockTime)
		if err != nil {
			log.Printf("clockin: dropping row %s with unparsable time %q: %v", row.EventID, row.ClockTime, err)
			continue
		}
		week[row.Date] = append(week[row.Date], canon)
	}

	// Canonical times are fixed-width, so lexicographic is chronological.
	for _, times := range week {
		sort.Strings(times)
	}
	return week, nil
}

// weekStart returns midnight of the most recent startDay on or before t.
func weekStart(t time.Time, startDay time.Weekday) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) - int(startDay) + 7) % 7
	return midnight.AddDate(0, 0, -offset)
}
