package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetWorkers handles the GET /api/workers request (dashboard roster).
func (h *Handler) GetWorkers(c *gin.Context) {
	workers, err := h.dir.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workers"})
		return
	}
	c.JSON(http.StatusOK, workers)
}

// GetWorkerHistory handles the GET /api/workers/:worker_id/history request.
// Returns the worker's current business week grouped by date.
func (h *Handler) GetWorkerHistory(c *gin.Context) {
	workerID := strings.TrimSpace(c.Param("worker_id"))

	week, err := h.svc.WeekHistory(c.Request.Context(), workerID, h.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"worker_id": workerID,
		"week":      week,
	})
}
