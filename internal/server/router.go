package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/export"
	"github.com/joseph-ayodele/jobs-tracker/internal/server/middleware"
)

// JobsService is the job CRUD surface the handlers call.
type JobsService interface {
	ListJobs(ctx context.Context, ownerID string, params entity.ListJobsParams) entity.ListJobsResult
	CreateJob(ctx context.Context, ownerID string, input entity.JobInput) *entity.Job
	UpdateJob(ctx context.Context, ownerID, id string, input entity.JobInput) *entity.Job
	DeleteJob(ctx context.Context, ownerID, id string) *entity.Job
	GetJob(ctx context.Context, ownerID, id string) *entity.Job
}

// StatsService serves the dashboard aggregates.
type StatsService interface {
	GetStats(ctx context.Context, ownerID string) (entity.StatusCounts, error)
	GetChartData(ctx context.Context, ownerID string) ([]entity.MonthlyApplications, error)
}

// Exporter renders an owner's jobs as a workbook.
type Exporter interface {
	ExportJobsXLSX(ctx context.Context, ownerID string, params export.ExportParams) ([]byte, error)
}

// Pinger reports store liveness for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything NewRouter wires together. Limiter is optional.
type Deps struct {
	Jobs        JobsService
	Stats       StatsService
	Export      Exporter
	Health      Pinger
	Identity    middleware.IdentityProvider
	Limiter     gin.HandlerFunc
	LandingPath string
	ListPath    string
	Logger      *zap.Logger
}

// NewRouter builds the HTTP API. Everything except / and /healthz sits behind
// the identity gate.
func NewRouter(deps Deps) *gin.Engine {
	if deps.LandingPath == "" {
		deps.LandingPath = "/"
	}
	if deps.ListPath == "" {
		deps.ListPath = "/jobs"
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(deps.Logger), middleware.Recovery(deps.Logger))

	r.GET("/", landing)
	r.GET("/healthz", healthz(deps.Health, deps.Logger))

	authed := r.Group("/")
	authed.Use(middleware.Identity(deps.Identity, deps.LandingPath))
	if deps.Limiter != nil {
		authed.Use(deps.Limiter)
	}

	jobs := &jobHandler{svc: deps.Jobs, listPath: deps.ListPath, logger: deps.Logger}
	authed.POST("/jobs", jobs.create)
	authed.GET("/jobs", jobs.list)
	authed.GET("/jobs/:id", jobs.get)
	authed.PATCH("/jobs/:id", jobs.update)
	authed.DELETE("/jobs/:id", jobs.delete)

	stats := &statsHandler{svc: deps.Stats, listPath: deps.ListPath, logger: deps.Logger}
	authed.GET("/stats", stats.stats)
	authed.GET("/stats/charts", stats.charts)

	if deps.Export != nil {
		exp := &exportHandler{svc: deps.Export, logger: deps.Logger}
		authed.GET("/export/jobs", exp.jobs)
	}

	return r
}

func landing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": "jobs-tracker"})
}

// mustOwner returns the owner set by the identity gate. The gate always runs
// first, so a missing owner means a wiring error.
func mustOwner(c *gin.Context) string {
	owner, ok := middleware.OwnerFromContext(c)
	if !ok {
		panic("server: handler reached without identity")
	}
	return owner
}
