package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"tasknest/usecase"
	"tasknest/utils"
)

type StatsHandler struct {
	backend usecase.Backend
	started time.Time
}

func NewStatsHandler(backend usecase.Backend) *StatsHandler {
	return &StatsHandler{backend: backend, started: time.Now()}
}

// GetStats reports task totals alongside host resource usage.
func (h *StatsHandler) GetStats(c *gin.Context) {
	index, err := h.backend.ListViews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"views": index.SmartViews,
		"system": gin.H{
			"cpu_percent":    utils.GetCPUUsage(),
			"memory_percent": utils.GetMemoryUsage(),
			"uptime":         time.Since(h.started).Round(time.Second).String(),
		},
	})
}

func HealthCheck(c *gin.Context) {
	utils.Success(c, gin.H{"status": "ok"})
}
