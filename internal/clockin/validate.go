package clockin

import (
	"context"
	"log"
	"sort"
	"time"

	"timeclock-backend/config"
	"timeclock-backend/internal/ledger"
	"timeclock-backend/internal/timefmt"
)

// Validator runs the pre-append business checks for a candidate punch. Both
// checks are side-effect free; they either pass or return a typed rejection.
type Validator struct {
	ledger ledger.Ledger
	cfg    *config.BusinessConfig
}

// NewValidator creates a Validator over the given ledger and policy.
func NewValidator(l ledger.Ledger, cfg *config.BusinessConfig) *Validator {
	return &Validator{ledger: l, cfg: cfg}
}

// CheckWorkHours rejects a candidate whose hour-of-day falls outside the
// configured [start, end) window. Pure function of the timestamp.
func (v *Validator) CheckWorkHours(now time.Time) error {
	hour := now.Hour()
	if hour < v.cfg.WorkdayStartHour || hour >= v.cfg.WorkdayEndHour {
		return rejected(KindOutOfHours,
			"clock-ins are accepted between %s and %s",
			timefmt.Hour12(v.cfg.WorkdayStartHour),
			timefmt.Hour12(v.cfg.WorkdayEndHour))
	}
	return nil
}

// CheckDuplicate rejects a candidate that lands within the minimum gap of the
// worker's chronologically last event on the same calendar date. The scan is
// bounded by the configured lookback cap; same-day events beyond the cap are
// invisible to this check, an accepted limitation of the ledger's scale.
func (v *Validator) CheckDuplicate(ctx context.Context, workerID string, now time.Time) error {
	date := timefmt.DateString(now)
	rows, err := v.ledger.QueryByWorkerAndDate(ctx, workerID, date, v.cfg.DuplicateScanLimit)
	if err != nil {
		return storageFailure(err, "could not check recent clock-ins, please try again")
	}
	if len(rows) == 0 {
		return nil
	}

	// The ledger's return order is not trusted; sort before taking the last.
	clocks := make([]timefmt.Clock, 0, len(rows))
	for _, row := range rows {
		c, err := timefmt.Parse(row.ClockTime)
		if err != nil {
			// Legacy rows with unparsable time cells carry no signal; they
			// must never block the worker.
			log.Printf("clockin: skipping unparsable time %q for worker %s on %s: %v", row.ClockTime, workerID, date, err)
			continue
		}
		clocks = append(clocks, c)
	}
	if len(clocks) == 0 {
		return nil
	}
	sort.Slice(clocks, func(i, j int) bool {
		return clocks[i].Canonical() < clocks[j].Canonical()
	})

	last := clocks[len(clocks)-1]
	diff := timefmt.FromTime(now).MinutesOfDay() - last.MinutesOfDay()
	if diff == 0 || diff < v.cfg.MinGapMinutes {
		return rejected(KindDuplicateSuppressed,
			"a clock-in was already recorded at %s; the next one needs at least %d minutes between punches",
			last.Canonical(), v.cfg.MinGapMinutes)
	}
	return nil
}
