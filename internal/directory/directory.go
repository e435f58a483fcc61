// Package directory resolves worker IDs against the worker roster. The roster
// is maintained by the HR workflow; this service never writes to it.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"timeclock-backend/internal/model"
)

// ErrWorkerNotFound is returned when no roster row exists for the given ID.
var ErrWorkerNotFound = errors.New("worker not found")

// Directory defines the roster lookups consumed by the ingestion core.
type Directory interface {
	// Resolve returns the worker for id, or ErrWorkerNotFound.
	Resolve(ctx context.Context, id string) (*model.Worker, error)

	// List returns the full roster for the dashboard.
	List(ctx context.Context) ([]model.Worker, error)
}

// gormDirectory implements Directory using GORM.
type gormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a new GORM-backed directory.
func NewGormDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) Resolve(ctx context.Context, id string) (*model.Worker, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrWorkerNotFound
	}

	var worker model.Worker
	err := d.db.WithContext(ctx).First(&worker, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve worker %s: %w", id, err)
	}
	return &worker, nil
}

func (d *gormDirectory) List(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	if err := d.db.WithContext(ctx).Order("display_name").Find(&workers).Error; err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}
