package handlers

import (
	"net/http"
	"runtime"
	"time"

	"todoify/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	startTime time.Time
}

func NewHealthHandler(startTime time.Time) *HealthHandler {
	return &HealthHandler{startTime: startTime}
}

func (h *HealthHandler) Health(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime_ms":       now.Sub(h.startTime).Milliseconds(),
		"process_start":   h.startTime.UTC().Format(time.RFC3339Nano),
		"current_time":    now.UTC().Format(time.RFC3339Nano),
		"request_id":      middleware.GetRequestID(c),
		"runtime_version": runtime.Version(),
	})
}
