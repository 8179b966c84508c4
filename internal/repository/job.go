package repository

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// SortOrder orders results by creation time.
type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

// FindOptions controls ordering and paging for Find. A zero Limit means no limit.
type FindOptions struct {
	Order  SortOrder
	Offset int
	Limit  int
}

// GroupField is a column jobs can be grouped by.
type GroupField string

const GroupByStatus GroupField = colStatus

// GroupCount is the number of rows sharing one value of a GroupField.
type GroupCount struct {
	Key   string
	Count int
}

// JobPatch is the full set of editable fields written by UpdateWhere.
type JobPatch struct {
	Position string
	Company  string
	Location string
	Status   constants.JobStatus
	Mode     constants.JobMode
}

// PatchFrom copies validated fields into a patch.
func PatchFrom(f entity.JobFields) JobPatch {
	return JobPatch{
		Position: f.Position,
		Company:  f.Company,
		Location: f.Location,
		Status:   f.Status,
		Mode:     f.Mode,
	}
}

type insertOptions struct {
	createdAt *time.Time
}

// InsertOption tweaks a single Insert.
type InsertOption func(*insertOptions)

// WithCreatedAt backdates the record. Operator tooling only; the HTTP surface never sets it.
func WithCreatedAt(t time.Time) InsertOption {
	return func(o *insertOptions) {
		if !t.IsZero() {
			utc := t.UTC().Truncate(time.Microsecond)
			o.createdAt = &utc
		}
	}
}

type JobRepository interface {
	Find(ctx context.Context, filter *JobFilter, opts FindOptions) ([]*entity.Job, error)
	Count(ctx context.Context, filter *JobFilter) (int, error)
	GroupCount(ctx context.Context, filter *JobFilter, field GroupField) ([]GroupCount, error)
	Insert(ctx context.Context, job *entity.Job, opts ...InsertOption) (*entity.Job, error)
	UpdateWhere(ctx context.Context, filter *JobFilter, patch JobPatch) (*entity.Job, error)
	DeleteWhere(ctx context.Context, filter *JobFilter) (*entity.Job, error)
}

type jobRepository struct {
	drv    dialect.Driver
	logger *zap.Logger
	now    func() time.Time
}

func NewJobRepository(drv dialect.Driver, logger *zap.Logger) JobRepository {
	return &jobRepository{
		drv:    drv,
		logger: logger,
		now:    time.Now,
	}
}

func (r *jobRepository) clock() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *jobRepository) builder() *sql.DialectBuilder {
	return sql.Dialect(r.drv.Dialect())
}

func (r *jobRepository) selectJobs(filter *JobFilter) (*sql.Selector, error) {
	pred, err := filter.predicate()
	if err != nil {
		return nil, err
	}
	b := r.builder()
	return b.Select(jobColumnNames...).From(b.Table(jobsTable)).Where(pred), nil
}

func (r *jobRepository) Find(ctx context.Context, filter *JobFilter, opts FindOptions) ([]*entity.Job, error) {
	s, err := r.selectJobs(filter)
	if err != nil {
		r.logger.Error("refusing unscoped job query", zap.Error(err))
		return nil, err
	}

	order := sql.OrderDesc()
	if opts.Order == OldestFirst {
		order = sql.OrderAsc()
	}
	sql.OrderByField(colCreatedAt, order).ToFunc()(s)
	sql.OrderByField(colID, order).ToFunc()(s)
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			// MySQL and SQLite require LIMIT with OFFSET.
			s.Limit(int(^uint32(0) >> 1))
		}
		s.Offset(opts.Offset)
	}

	jobs, err := r.query(ctx, r.drv, s)
	if err != nil {
		r.logger.Error("failed to find jobs", zap.String("owner_id", filter.OwnerID()), zap.Error(err))
		return nil, common.DatabaseError("find jobs", err)
	}
	return jobs, nil
}

func (r *jobRepository) Count(ctx context.Context, filter *JobFilter) (int, error) {
	pred, err := filter.predicate()
	if err != nil {
		r.logger.Error("refusing unscoped job count", zap.Error(err))
		return 0, err
	}
	b := r.builder()
	query, args := b.Select().Count().From(b.Table(jobsTable)).Where(pred).Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		r.logger.Error("failed to count jobs", zap.String("owner_id", filter.OwnerID()), zap.Error(err))
		return 0, common.DatabaseError("count jobs", err)
	}
	defer rows.Close()

	n, err := sql.ScanInt(rows)
	if err != nil {
		r.logger.Error("failed to scan job count", zap.String("owner_id", filter.OwnerID()), zap.Error(err))
		return 0, common.DatabaseError("count jobs", err)
	}
	return n, nil
}

func (r *jobRepository) GroupCount(ctx context.Context, filter *JobFilter, field GroupField) ([]GroupCount, error) {
	pred, err := filter.predicate()
	if err != nil {
		r.logger.Error("refusing unscoped job aggregate", zap.Error(err))
		return nil, err
	}
	b := r.builder()
	col := string(field)
	query, args := b.Select(col, sql.Count("*")).
		From(b.Table(jobsTable)).
		Where(pred).
		GroupBy(col).
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		r.logger.Error("failed to group jobs", zap.String("owner_id", filter.OwnerID()), zap.String("field", col), zap.Error(err))
		return nil, common.DatabaseError("group jobs", err)
	}
	defer rows.Close()

	var groups []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			r.logger.Error("failed to scan job group", zap.Error(err))
			return nil, common.DatabaseError("group jobs", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate job groups", zap.Error(err))
		return nil, common.DatabaseError("group jobs", err)
	}
	return groups, nil
}

func (r *jobRepository) Insert(ctx context.Context, job *entity.Job, opts ...InsertOption) (*entity.Job, error) {
	if job == nil || job.OwnerID == "" {
		return nil, common.ErrUnscopedQuery
	}
	var o insertOptions
	for _, opt := range opts {
		opt(&o)
	}

	now := r.clock()
	rec := *job
	rec.ID = uuid.New()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if o.createdAt != nil {
		rec.CreatedAt = *o.createdAt
		rec.UpdatedAt = *o.createdAt
	}

	query, args := r.builder().Insert(jobsTable).
		Columns(jobColumnNames...).
		Values(rec.ID, rec.OwnerID, rec.Position, rec.Company, rec.Location,
			string(rec.Status), string(rec.Mode), rec.CreatedAt, rec.UpdatedAt).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		r.logger.Error("failed to insert job", zap.String("owner_id", rec.OwnerID), zap.Error(err))
		return nil, common.DatabaseError("insert job", err)
	}
	return &rec, nil
}

func (r *jobRepository) UpdateWhere(ctx context.Context, filter *JobFilter, patch JobPatch) (*entity.Job, error) {
	var updated *entity.Job
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		current, err := r.first(ctx, tx, filter)
		if err != nil {
			return err
		}

		pred, err := OwnedBy(current.OwnerID).ID(current.ID).predicate()
		if err != nil {
			return err
		}
		now := r.clock()
		query, args := r.builder().Update(jobsTable).
			Set(colPosition, patch.Position).
			Set(colCompany, patch.Company).
			Set(colLocation, patch.Location).
			Set(colStatus, string(patch.Status)).
			Set(colMode, string(patch.Mode)).
			Set(colUpdatedAt, now).
			Where(pred).
			Query()

		var res stdsql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return common.DatabaseError("update job", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		current.Position = patch.Position
		current.Company = patch.Company
		current.Location = patch.Location
		current.Status = patch.Status
		current.Mode = patch.Mode
		current.UpdatedAt = now
		updated = current
		return nil
	})
	if err != nil {
		r.logFailure("failed to update job", filter, err)
		return nil, err
	}
	return updated, nil
}

func (r *jobRepository) DeleteWhere(ctx context.Context, filter *JobFilter) (*entity.Job, error) {
	var deleted *entity.Job
	err := r.withTx(ctx, func(tx dialect.Tx) error {
		current, err := r.first(ctx, tx, filter)
		if err != nil {
			return err
		}

		pred, err := OwnedBy(current.OwnerID).ID(current.ID).predicate()
		if err != nil {
			return err
		}
		query, args := r.builder().Delete(jobsTable).Where(pred).Query()

		var res stdsql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return common.DatabaseError("delete job", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		r.logFailure("failed to delete job", filter, err)
		return nil, err
	}
	return deleted, nil
}

// first returns the newest job matching filter, or ErrNotFound.
func (r *jobRepository) first(ctx context.Context, q dialect.ExecQuerier, filter *JobFilter) (*entity.Job, error) {
	s, err := r.selectJobs(filter)
	if err != nil {
		return nil, err
	}
	sql.OrderByField(colCreatedAt, sql.OrderDesc()).ToFunc()(s)
	s.Limit(1)

	jobs, err := r.query(ctx, q, s)
	if err != nil {
		return nil, common.DatabaseError("select job", err)
	}
	if len(jobs) == 0 {
		return nil, common.ErrNotFound
	}
	return jobs[0], nil
}

func (r *jobRepository) query(ctx context.Context, q dialect.ExecQuerier, s *sql.Selector) ([]*entity.Job, error) {
	query, args := s.Query()
	rows := &sql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*entity.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func scanJob(rows *sql.Rows) (*entity.Job, error) {
	var (
		job          entity.Job
		status, mode string
	)
	if err := rows.Scan(&job.ID, &job.OwnerID, &job.Position, &job.Company, &job.Location,
		&status, &mode, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, err
	}
	job.Status = constants.JobStatus(status)
	job.Mode = constants.JobMode(mode)
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()
	return &job, nil
}

func (r *jobRepository) withTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return common.DatabaseError("begin tx", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			r.logger.Warn("failed to roll back tx", zap.Error(rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.DatabaseError("commit tx", err)
	}
	return nil
}

func (r *jobRepository) logFailure(msg string, filter *JobFilter, err error) {
	fields := []zap.Field{zap.String("owner_id", filter.OwnerID()), zap.Error(err)}
	if errors.Is(err, common.ErrNotFound) {
		r.logger.Debug(msg, fields...)
		return
	}
	r.logger.Error(msg, fields...)
}

func requireAffected(res stdsql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return common.DatabaseError("rows affected", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
