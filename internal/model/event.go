package model

import "time"

// ClockInEvent is one accepted punch in the append-only ledger.
//
// Date and ClockTime are stored as strings because the ledger predates this
// service: rows imported from the old spreadsheet may carry free-text values
// like "9:05" next to canonical "09:05:00" ones. Readers must tolerate both
// and must never assume row order.
type ClockInEvent struct {
	EventID   string `gorm:"primaryKey;size:36"`
	WorkerID  string `gorm:"index;size:64;not null"`
	Date      string `gorm:"size:32;not null"` // YYYY-MM-DD in business-local time
	ClockTime string `gorm:"size:32;not null"` // HH:MM:SS in business-local time

	// Reserved for downstream payroll edits; never populated at ingestion.
	BreakMinutes int
	Site         string `gorm:"size:128"`
	Edited       bool

	CreatedAt time.Time
}
