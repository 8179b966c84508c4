package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/utils"
)

// ChartMonths is how far back GetChartData looks.
const ChartMonths = 6

// Service aggregates an owner's jobs. Unlike the jobs service it returns store
// faults to the caller.
type Service struct {
	repo   repository.JobRepository
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

type Option func(*Service)

// WithLocation sets the time zone months are bucketed in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.JobRepository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStats counts the owner's jobs per status. All statuses are present, zero when absent.
func (s *Service) GetStats(ctx context.Context, ownerID string) (entity.StatusCounts, error) {
	groups, err := s.repo.GroupCount(ctx, repository.OwnedBy(ownerID), repository.GroupByStatus)
	if err != nil {
		s.logger.Error("get stats failed", zap.String("owner_id", ownerID), zap.Error(err))
		return entity.StatusCounts{}, err
	}

	var counts entity.StatusCounts
	for _, g := range groups {
		switch constants.JobStatus(g.Key) {
		case constants.JobStatusPending:
			counts.Pending += g.Count
		case constants.JobStatusInterview:
			counts.Interview += g.Count
		case constants.JobStatusDeclined:
			counts.Declined += g.Count
		default:
			s.logger.Warn("ignoring unknown status in stats", zap.String("status", g.Key), zap.Int("count", g.Count))
		}
	}
	return counts, nil
}

// GetChartData counts the owner's applications per month over the last six
// calendar months, oldest first. Months without applications are omitted.
func (s *Service) GetChartData(ctx context.Context, ownerID string) ([]entity.MonthlyApplications, error) {
	since := utils.SubtractMonths(s.now().In(s.loc), ChartMonths)

	jobs, err := s.repo.Find(ctx, repository.OwnedBy(ownerID).CreatedSince(since),
		repository.FindOptions{Order: repository.OldestFirst})
	if err != nil {
		s.logger.Error("get chart data failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	buckets := make([]entity.MonthlyApplications, 0, ChartMonths+1)
	index := make(map[string]int, ChartMonths+1)
	for _, job := range jobs {
		label := utils.MonthLabel(job.CreatedAt, s.loc)
		if i, ok := index[label]; ok {
			buckets[i].Count++
			continue
		}
		index[label] = len(buckets)
		buckets = append(buckets, entity.MonthlyApplications{Date: label, Count: 1})
	}
	return buckets, nil
}
