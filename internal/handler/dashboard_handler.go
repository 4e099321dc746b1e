package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosterhub/rosterhub-api/internal/dto"
	"github.com/rosterhub/rosterhub-api/internal/models"
	"github.com/rosterhub/rosterhub-api/pkg/response"
)

type statsService interface {
	Stats() (models.RosterStats, models.RosterCounts, error)
	Retry(ctx context.Context) error
	Ready() bool
}

// DashboardHandler exposes aggregate statistics and the initialization retry.
type DashboardHandler struct {
	stats statsService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(stats statsService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Summary godoc
// @Summary Roster statistics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	stats, counts, err := h.stats.Stats()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DashboardResponse{Stats: stats, Counts: counts})
}

// Retry godoc
// @Summary Retry initialization
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /system/retry [post]
func (h *DashboardHandler) Retry(c *gin.Context) {
	if err := h.stats.Retry(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "initialized"})
}
