package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/utils"
)

// Notifier receives committed job changes. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, event entity.JobEvent)
}

// Service handles job business logic. Every method takes the owner explicitly and
// never widens a query beyond that owner.
type Service struct {
	repo     repository.JobRepository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithNotifier publishes a JobEvent after every successful mutation.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a new job service.
func NewService(repo repository.JobRepository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListJobs returns one page of the owner's jobs, newest first. Store faults are
// logged and produce an empty first page.
func (s *Service) ListJobs(ctx context.Context, ownerID string, params entity.ListJobsParams) entity.ListJobsResult {
	page := utils.NormalizePage(params.Page)
	limit := utils.NormalizeLimit(params.Limit)
	filter := repository.OwnedBy(ownerID).
		Search(strings.TrimSpace(params.Search)).
		Status(params.Status)

	var (
		jobs  []*entity.Job
		count int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.repo.Find(gctx, filter, repository.FindOptions{
			Order:  repository.NewestFirst,
			Offset: utils.Offset(page, limit),
			Limit:  limit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("list jobs failed", zap.String("owner_id", ownerID), zap.Error(err))
		return entity.EmptyListJobsResult(limit)
	}

	return entity.ListJobsResult{
		Jobs:       jobs,
		Count:      count,
		TotalPages: utils.TotalPages(count, limit),
		Page:       page,
		Limit:      limit,
	}
}

// CreateJob validates input and stores it for ownerID. Any failure yields nil.
func (s *Service) CreateJob(ctx context.Context, ownerID string, input entity.JobInput) *entity.Job {
	fields, err := Validate(input)
	if err != nil {
		s.logger.Info("create job rejected", zap.String("owner_id", ownerID), zap.Error(err))
		return nil
	}

	job, err := s.repo.Insert(ctx, &entity.Job{
		OwnerID:  ownerID,
		Position: fields.Position,
		Company:  fields.Company,
		Location: fields.Location,
		Status:   fields.Status,
		Mode:     fields.Mode,
	})
	if err != nil {
		s.logger.Error("create job failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil
	}

	s.logger.Debug("job created", zap.String("owner_id", ownerID), zap.String("job_id", job.ID.String()))
	s.notify(ctx, entity.JobCreated, job)
	return job
}

// UpdateJob replaces the editable fields of the owner's job. Missing, foreign or
// malformed ids and invalid input all yield nil.
func (s *Service) UpdateJob(ctx context.Context, ownerID, id string, input entity.JobInput) *entity.Job {
	logger := s.logger.With(zap.String("owner_id", ownerID), zap.String("job_id", id))

	fields, err := Validate(input)
	if err != nil {
		logger.Info("update job rejected", zap.Error(err))
		return nil
	}
	jobID, ok := s.parseID(logger, id)
	if !ok {
		return nil
	}

	job, err := s.repo.UpdateWhere(ctx, repository.OwnedBy(ownerID).ID(jobID), repository.PatchFrom(fields))
	if err != nil {
		s.logMissing(logger, "update job failed", err)
		return nil
	}

	s.notify(ctx, entity.JobUpdated, job)
	return job
}

// DeleteJob removes the owner's job and returns its last state, or nil.
func (s *Service) DeleteJob(ctx context.Context, ownerID, id string) *entity.Job {
	logger := s.logger.With(zap.String("owner_id", ownerID), zap.String("job_id", id))

	jobID, ok := s.parseID(logger, id)
	if !ok {
		return nil
	}

	job, err := s.repo.DeleteWhere(ctx, repository.OwnedBy(ownerID).ID(jobID))
	if err != nil {
		s.logMissing(logger, "delete job failed", err)
		return nil
	}

	s.notify(ctx, entity.JobDeleted, job)
	return job
}

// GetJob returns the owner's job, or nil when it is missing, foreign or the id is malformed.
func (s *Service) GetJob(ctx context.Context, ownerID, id string) *entity.Job {
	logger := s.logger.With(zap.String("owner_id", ownerID), zap.String("job_id", id))

	jobID, ok := s.parseID(logger, id)
	if !ok {
		return nil
	}

	jobs, err := s.repo.Find(ctx, repository.OwnedBy(ownerID).ID(jobID), repository.FindOptions{Limit: 1})
	if err != nil {
		logger.Error("get job failed", zap.Error(err))
		return nil
	}
	if len(jobs) == 0 {
		logger.Debug("job not found")
		return nil
	}
	return jobs[0]
}

func (s *Service) parseID(logger *zap.Logger, id string) (uuid.UUID, bool) {
	v := common.NewValidator().Field("id", id, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		logger.Debug("malformed job id", zap.Error(err))
		return uuid.Nil, false
	}
	return uuid.MustParse(id), true
}

func (s *Service) logMissing(logger *zap.Logger, msg string, err error) {
	if errors.Is(err, common.ErrNotFound) {
		logger.Info(msg, zap.Error(err))
		return
	}
	logger.Error(msg, zap.Error(err))
}

func (s *Service) notify(ctx context.Context, typ entity.JobEventType, job *entity.Job) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, entity.JobEvent{
		Type:       typ,
		JobID:      job.ID,
		OwnerID:    job.OwnerID,
		OccurredAt: s.now().UTC(),
	})
}
