package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/export"
)

type exportHandler struct {
	svc    Exporter
	logger *zap.Logger
}

func (h *exportHandler) jobs(c *gin.Context) {
	owner := mustOwner(c)
	data, err := h.svc.ExportJobsXLSX(c.Request.Context(), owner, export.ExportParams{
		Search: c.Query("search"),
		Status: c.Query("jobStatus"),
	})
	if err != nil {
		h.logger.Error("export jobs failed", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("jobs-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, constants.XLSXContentType, data)
}
