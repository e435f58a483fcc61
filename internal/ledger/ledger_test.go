package ledger

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"timeclock-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormLedger_Append(t *testing.T) {
	gormDB, mock := newTestDB(t)
	l := NewGormLedger(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "clock_in_events"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	event := &model.ClockInEvent{
		WorkerID:  "w-1",
		Date:      "2026-03-02",
		ClockTime: "09:00:00",
	}
	id, err := l.Append(context.Background(), event)

	assert.NoError(t, err)
	assert.NotEmpty(t, id, "Append must hand back a generated event ID")
	assert.Equal(t, event.EventID, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedger_AppendKeepsProvidedID(t *testing.T) {
	gormDB, mock := newTestDB(t)
	l := NewGormLedger(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "clock_in_events"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	event := &model.ClockInEvent{
		EventID:   "fixed-id",
		WorkerID:  "w-1",
		Date:      "2026-03-02",
		ClockTime: "09:00:00",
	}
	id, err := l.Append(context.Background(), event)

	assert.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedger_AppendTransportFailure(t *testing.T) {
	gormDB, mock := newTestDB(t)
	l := NewGormLedger(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "clock_in_events"`)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := l.Append(context.Background(), &model.ClockInEvent{WorkerID: "w-1"})

	assert.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedger_QueryByWorkerAndRange(t *testing.T) {
	gormDB, mock := newTestDB(t)
	l := NewGormLedger(gormDB)

	rows := sqlmock.NewRows([]string{"event_id", "worker_id", "date", "clock_time"}).
		AddRow("e-2", "w-1", "2026-03-03", "09:10:00").
		AddRow("e-1", "w-1", "2026-03-02", "9:05") // legacy free-text cell

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "clock_in_events" WHERE worker_id = $1 AND date >= $2 AND date < $3`)).
		WithArgs("w-1", "2026-03-02", "2026-03-09").
		WillReturnRows(rows)

	events, err := l.QueryByWorkerAndRange(context.Background(), "w-1", "2026-03-02", "2026-03-09")

	assert.NoError(t, err)
	require.Len(t, events, 2)
	// Rows come back in whatever order the store chose; callers sort.
	assert.Equal(t, "9:05", events[1].ClockTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLedger_QueryByWorkerAndDate(t *testing.T) {
	gormDB, mock := newTestDB(t)
	l := NewGormLedger(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "clock_in_events" WHERE worker_id = $1 AND date = $2 ORDER BY created_at DESC LIMIT $3`)).
		WithArgs("w-1", "2026-03-02", 25).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "worker_id", "date", "clock_time"}).
			AddRow("e-1", "w-1", "2026-03-02", "09:00:00"))

	events, err := l.QueryByWorkerAndDate(context.Background(), "w-1", "2026-03-02", 25)

	assert.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "09:00:00", events[0].ClockTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}
