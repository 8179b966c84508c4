package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/schema"
	"github.com/joseph-ayodele/jobs-tracker/internal/utils"
)

type jobHandler struct {
	svc      JobsService
	listPath string
	logger   *zap.Logger
}

func (h *jobHandler) create(c *gin.Context) {
	owner := mustOwner(c)
	input, ok := h.bind(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"job": nil})
		return
	}

	job := h.svc.CreateJob(c.Request.Context(), owner, input)
	if job == nil {
		c.JSON(http.StatusOK, gin.H{"job": nil})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *jobHandler) list(c *gin.Context) {
	owner := mustOwner(c)
	result := h.svc.ListJobs(c.Request.Context(), owner, entity.ListJobsParams{
		Search: c.Query("search"),
		Status: c.Query("jobStatus"),
		Page:   utils.ParsePage(c.Query("page")),
		Limit:  utils.ParseLimit(c.Query("limit")),
	})
	c.JSON(http.StatusOK, result)
}

func (h *jobHandler) get(c *gin.Context) {
	owner := mustOwner(c)
	job := h.svc.GetJob(c.Request.Context(), owner, c.Param("id"))
	if job == nil {
		c.Redirect(http.StatusSeeOther, h.listPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *jobHandler) update(c *gin.Context) {
	owner := mustOwner(c)
	input, ok := h.bind(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"job": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": h.svc.UpdateJob(c.Request.Context(), owner, c.Param("id"), input)})
}

func (h *jobHandler) delete(c *gin.Context) {
	owner := mustOwner(c)
	c.JSON(http.StatusOK, gin.H{"job": h.svc.DeleteJob(c.Request.Context(), owner, c.Param("id"))})
}

// bind checks the body against the payload schema and decodes it.
func (h *jobHandler) bind(c *gin.Context) (entity.JobInput, bool) {
	var input entity.JobInput
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("read job payload failed", zap.Error(err))
		return input, false
	}
	if err := schema.JobPayload.Validate(body); err != nil {
		h.logger.Info("job payload rejected", zap.Error(err))
		return input, false
	}
	if err := json.Unmarshal(body, &input); err != nil {
		h.logger.Info("decode job payload failed", zap.Error(err))
		return input, false
	}
	return input, true
}
