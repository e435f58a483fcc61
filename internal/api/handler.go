package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"timeclock-backend/internal/clockin"
	"timeclock-backend/internal/directory"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *clockin.Service
	dir     directory.Directory
	db      *gorm.DB
	webpush *webpush.Options

	// Now supplies the candidate timestamp for a punch; swapped in tests.
	Now func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(svc *clockin.Service, dir directory.Directory, db *gorm.DB, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		svc:     svc,
		dir:     dir,
		db:      db,
		webpush: webpushOptions,
		Now:     time.Now,
	}
}
