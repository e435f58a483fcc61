package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/clockin"
)

type clockInRequest struct {
	WorkerID string `json:"worker_id" binding:"required"`
}

// PostClockIn handles the POST /api/clock-in request.
func (h *Handler) PostClockIn(c *gin.Context) {
	var req clockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.svc.ClockIn(c.Request.Context(), req.WorkerID, h.Now())
	if err != nil {
		status, body := clockInErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// clockInErrorResponse maps a typed clock-in error to an HTTP status and a
// body whose message is safe to show the worker directly.
func clockInErrorResponse(err error) (int, gin.H) {
	var typed *clockin.Error
	if !errors.As(err, &typed) {
		return http.StatusInternalServerError, gin.H{"error": "internal error"}
	}

	var status int
	switch typed.Kind {
	case clockin.KindWorkerInvalid:
		status = http.StatusForbidden
	case clockin.KindContended, clockin.KindDuplicateSuppressed:
		status = http.StatusConflict
	case clockin.KindOutOfHours:
		status = http.StatusUnprocessableEntity
	case clockin.KindStorageFailure:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	return status, gin.H{
		"error":     string(typed.Kind),
		"message":   typed.Message,
		"retryable": typed.Retryable(),
	}
}
