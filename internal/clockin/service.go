// Package clockin is the time-clock ingestion core: it accepts a worker's
// clock-in attempt, serializes attempts per worker through a TTL advisory
// lock, validates the attempt against the work-hour and duplicate-gap rules,
// appends the accepted event to the ledger, and reads back the worker's
// current week.
package clockin

import (
	"context"
	"errors"
	"log"
	"time"

	"timeclock-backend/config"
	"timeclock-backend/internal/directory"
	"timeclock-backend/internal/ledger"
	"timeclock-backend/internal/model"
	"timeclock-backend/internal/mutex"
	"timeclock-backend/internal/timefmt"
)

// Notifier receives accepted punches for fan-out. Delivery is fire-and-forget
// and must never influence the ingestion result.
type Notifier interface {
	ClockInAccepted(workerName, clockTime string)
}

// ClockInResult is returned for an accepted punch.
type ClockInResult struct {
	EventID    string              `json:"event_id"`
	WorkerName string              `json:"worker_name"`
	Week       map[string][]string `json:"week"`
}

// Service coordinates a single clock-in attempt end to end.
type Service struct {
	directory directory.Directory
	ledger    ledger.Ledger
	locks     *mutex.Cache
	validator *Validator
	cfg       *config.BusinessConfig
	notifier  Notifier
}

// NewService creates the ingestion coordinator. notifier may be nil.
func NewService(dir directory.Directory, l ledger.Ledger, locks *mutex.Cache, cfg *config.BusinessConfig, notifier Notifier) *Service {
	return &Service{
		directory: dir,
		ledger:    l,
		locks:     locks,
		validator: NewValidator(l, cfg),
		cfg:       cfg,
		notifier:  notifier,
	}
}

// ClockIn runs one ingestion attempt for workerID at the given instant. The
// timestamp is an explicit input so callers (and tests) control the clock; it
// is converted to business-local time before any rule is applied.
//
// The per-worker advisory lock guarantees at most one in-flight attempt per
// worker. It is released on every exit path; if this process dies mid-attempt
// the lock's TTL releases it instead.
func (s *Service) ClockIn(ctx context.Context, workerID string, now time.Time) (*ClockInResult, error) {
	worker, err := s.directory.Resolve(ctx, workerID)
	if errors.Is(err, directory.ErrWorkerNotFound) {
		return nil, rejected(KindWorkerInvalid, "unknown worker id")
	}
	if err != nil {
		return nil, storageFailure(err, "could not look up worker, please try again")
	}
	if !worker.IsActive() {
		return nil, rejected(KindWorkerInvalid, "%s is not an active worker", worker.DisplayName)
	}

	now = now.In(s.cfg.Location)

	lockKey := mutex.LockKey(worker.ID)
	if !s.locks.TryAcquire(lockKey, s.cfg.LockTTL()) {
		return nil, rejected(KindContended, "another clock-in for this worker is in progress, try again in a moment")
	}
	defer s.locks.Release(lockKey)

	if s.locks.Exists(mutex.SeenKey(worker.ID)) {
		// Hint only: a recent acceptance exists, but the ledger scan below is
		// the authority so a legitimate next punch at the gap still lands.
		log.Printf("clockin: recent acceptance marker present for worker %s", worker.ID)
	}

	if err := s.validator.CheckWorkHours(now); err != nil {
		return nil, err
	}
	if err := s.validator.CheckDuplicate(ctx, worker.ID, now); err != nil {
		return nil, err
	}

	event := &model.ClockInEvent{
		WorkerID:  worker.ID,
		Date:      timefmt.DateString(now),
		ClockTime: timefmt.FromTime(now).Canonical(),
	}
	eventID, err := s.ledger.Append(ctx, event)
	if err != nil {
		return nil, storageFailure(err, "could not record the clock-in, please try again")
	}

	// Best effort; only dampens retries, never correctness.
	s.locks.Put(mutex.SeenKey(worker.ID), eventID, s.cfg.SeenTTL())

	week, err := s.WeekHistory(ctx, worker.ID, now)
	if err != nil {
		// The punch is durably recorded; a failed read-back must not turn
		// success into an error the client would retry.
		log.Printf("clockin: week read-back failed for worker %s: %v", worker.ID, err)
		week = map[string][]string{}
	}

	if s.notifier != nil {
		s.notifier.ClockInAccepted(worker.DisplayName, event.ClockTime)
	}

	return &ClockInResult{
		EventID:    eventID,
		WorkerName: worker.DisplayName,
		Week:       week,
	}, nil
}
