package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statsHandler struct {
	svc      StatsService
	listPath string
	logger   *zap.Logger
}

// Aggregation failures send the caller back to the job list.

func (h *statsHandler) stats(c *gin.Context) {
	owner := mustOwner(c)
	counts, err := h.svc.GetStats(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("get stats failed", zap.String("owner_id", owner), zap.Error(err))
		c.Redirect(http.StatusSeeOther, h.listPath)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *statsHandler) charts(c *gin.Context) {
	owner := mustOwner(c)
	points, err := h.svc.GetChartData(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("get chart data failed", zap.String("owner_id", owner), zap.Error(err))
		c.Redirect(http.StatusSeeOther, h.listPath)
		return
	}
	c.JSON(http.StatusOK, points)
}
