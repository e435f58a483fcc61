package model

import "time"

// WorkerStatus is the directory status of a worker.
type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "active"
	WorkerInactive WorkerStatus = "inactive"
)

// Worker represents one row of the worker directory. The directory is owned
// by the HR workflow; this service only reads it.
type Worker struct {
	ID          string       `gorm:"primaryKey;size:64" json:"id"`
	DisplayName string       `gorm:"size:256;not null" json:"displayName"`
	Status      WorkerStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// IsActive reports whether the worker may clock in.
func (w *Worker) IsActive() bool {
	return w.Status == WorkerActive
}
