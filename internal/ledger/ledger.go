// Package ledger persists accepted clock-in events. The table is append-only
// from this service's point of view and enforces no uniqueness or ordering;
// every invariant is checked by the ingestion layer before Append is called.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timeclock-backend/internal/model"
)

// Ledger defines the event store operations consumed by the ingestion core.
type Ledger interface {
	// Append records one event and returns its generated event ID. The ID is
	// for display only; it plays no part in deduplication.
	Append(ctx context.Context, event *model.ClockInEvent) (string, error)

	// QueryByWorkerAndRange returns the worker's rows with Date in [fromDate,
	// toDate). Rows come back unordered and may include malformed legacy
	// values the caller must tolerate.
	QueryByWorkerAndRange(ctx context.Context, workerID, fromDate, toDate string) ([]model.ClockInEvent, error)

	// QueryByWorkerAndDate returns up to limit of the worker's rows for one
	// calendar date, most recently appended first. The limit is a lookback
	// cap for the duplicate scan; when a day's count exceeds it, only the
	// oldest rows drop out of sight.
	QueryByWorkerAndDate(ctx context.Context, workerID, date string, limit int) ([]model.ClockInEvent, error)
}

// gormLedger implements Ledger using GORM.
type gormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a new GORM-backed ledger.
func NewGormLedger(db *gorm.DB) Ledger {
	return &gormLedger{db: db}
}

func (l *gormLedger) Append(ctx context.Context, event *model.ClockInEvent) (string, error) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if err := l.db.WithContext(ctx).Create(event).Error; err != nil {
		return "", fmt.Errorf("failed to append clock-in event for worker %s: %w", event.WorkerID, err)
	}
	return event.EventID, nil
}

func (l *gormLedger) QueryByWorkerAndRange(ctx context.Context, workerID, fromDate, toDate string) ([]model.ClockInEvent, error) {
	var events []model.ClockInEvent
	err := l.db.WithContext(ctx).
		Where("worker_id = ? AND date >= ? AND date < ?", workerID, fromDate, toDate).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query events for worker %s in [%s, %s): %w", workerID, fromDate, toDate, err)
	}
	return events, nil
}

func (l *gormLedger) QueryByWorkerAndDate(ctx context.Context, workerID, date string, limit int) ([]model.ClockInEvent, error) {
	var events []model.ClockInEvent
	// The cap must shed the oldest rows, never the newest: the duplicate scan
	// compares against the most recent punch. Ordering by insertion time
	// rather than clock_time keeps legacy free-text cells (which do not sort
	// lexicographically) from pushing a recent row out of the slice.
	q := l.db.WithContext(ctx).
		Where("worker_id = ? AND date = ?", workerID, date).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query events for worker %s on %s: %w", workerID, date, err)
	}
	return events, nil
}
