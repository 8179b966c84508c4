package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository/repotest"
)

func newRepo(t *testing.T) repository.JobRepository {
	t.Helper()
	db := repotest.NewSQLite(t)
	return repository.NewJobRepository(db.Driver, zaptest.NewLogger(t))
}

func insert(t *testing.T, repo repository.JobRepository, owner, position, company string, status constants.JobStatus, createdAt time.Time) *entity.Job {
	t.Helper()
	job, err := repo.Insert(context.Background(), &entity.Job{
		OwnerID:  owner,
		Position: position,
		Company:  company,
		Location: "Remote",
		Status:   status,
		Mode:     constants.JobModeFullTime,
	}, repository.WithCreatedAt(createdAt))
	require.NoError(t, err)
	return job
}

func TestJobRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.Insert(ctx, &entity.Job{
		OwnerID:  "user_a",
		Position: "Backend Engineer",
		Company:  "Acme",
		Location: "Berlin",
		Status:   constants.JobStatusInterview,
		Mode:     constants.JobModePartTime,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	jobs, err := repo.Find(ctx, repository.OwnedBy("user_a").ID(created.ID), repository.FindOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, created.ID, jobs[0].ID)
	assert.Equal(t, "Backend Engineer", jobs[0].Position)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "Berlin", jobs[0].Location)
	assert.Equal(t, constants.JobStatusInterview, jobs[0].Status)
	assert.Equal(t, constants.JobModePartTime, jobs[0].Mode)
	assert.True(t, created.CreatedAt.Equal(jobs[0].CreatedAt))
}

func TestJobRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mine := insert(t, repo, "user_a", "Engineer", "Acme", constants.JobStatusPending, base)
	insert(t, repo, "user_b", "Engineer", "Acme", constants.JobStatusPending, base)

	jobs, err := repo.Find(ctx, repository.OwnedBy("user_a"), repository.FindOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, mine.ID, jobs[0].ID)

	jobs, err = repo.Find(ctx, repository.OwnedBy("user_b").ID(mine.ID), repository.FindOptions{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = repo.Find(ctx, repository.OwnedBy(""), repository.FindOptions{})
	assert.ErrorIs(t, err, common.ErrUnscopedQuery)
	_, err = repo.Count(ctx, nil)
	assert.ErrorIs(t, err, common.ErrUnscopedQuery)
}

func TestJobRepository_SearchStatusAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	insert(t, repo, "user_a", "Go Developer", "Initech", constants.JobStatusPending, base)
	insert(t, repo, "user_a", "Designer", "Gopher Labs", constants.JobStatusInterview, base.Add(time.Hour))
	insert(t, repo, "user_a", "Accountant", "Umbrella", constants.JobStatusDeclined, base.Add(2*time.Hour))
	insert(t, repo, "user_a", "100%_match", "Umbrella", constants.JobStatusPending, base.Add(3*time.Hour))

	jobs, err := repo.Find(ctx, repository.OwnedBy("user_a").Search("Go"), repository.FindOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Designer", jobs[0].Position, "newest first")
	assert.Equal(t, "Go Developer", jobs[1].Position)

	jobs, err = repo.Find(ctx, repository.OwnedBy("user_a").Search("%_"), repository.FindOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 1, "LIKE wildcards are matched literally")
	assert.Equal(t, "100%_match", jobs[0].Position)

	n, err := repo.Count(ctx, repository.OwnedBy("user_a").Status("pending"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.Count(ctx, repository.OwnedBy("user_a").Status(constants.StatusFilterAll))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = repo.Count(ctx, repository.OwnedBy("user_a").Status("accepted"))
	require.NoError(t, err)
	assert.Zero(t, n)

	page, err := repo.Find(ctx, repository.OwnedBy("user_a"), repository.FindOptions{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Accountant", page[0].Position)
	assert.Equal(t, "Designer", page[1].Position)

	oldest, err := repo.Find(ctx, repository.OwnedBy("user_a").CreatedSince(base.Add(time.Hour)),
		repository.FindOptions{Order: repository.OldestFirst})
	require.NoError(t, err)
	require.Len(t, oldest, 3)
	assert.Equal(t, "Designer", oldest[0].Position)
}

func TestJobRepository_GroupCount(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	insert(t, repo, "user_a", "One", "Acme", constants.JobStatusPending, base)
	insert(t, repo, "user_a", "Two", "Acme", constants.JobStatusPending, base)
	insert(t, repo, "user_a", "Three", "Acme", constants.JobStatusDeclined, base)
	insert(t, repo, "user_b", "Four", "Acme", constants.JobStatusInterview, base)

	groups, err := repo.GroupCount(ctx, repository.OwnedBy("user_a"), repository.GroupByStatus)
	require.NoError(t, err)

	got := map[string]int{}
	for _, g := range groups {
		got[g.Key] = g.Count
	}
	assert.Equal(t, map[string]int{"pending": 2, "declined": 1}, got)
}

func TestJobRepository_UpdateWhere(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	job := insert(t, repo, "user_a", "Engineer", "Acme", constants.JobStatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	patch := repository.JobPatch{
		Position: "Senior Engineer",
		Company:  "Acme",
		Location: "Remote",
		Status:   constants.JobStatusInterview,
		Mode:     constants.JobModeInternship,
	}

	_, err := repo.UpdateWhere(ctx, repository.OwnedBy("user_b").ID(job.ID), patch)
	require.True(t, errors.Is(err, common.ErrNotFound))

	updated, err := repo.UpdateWhere(ctx, repository.OwnedBy("user_a").ID(job.ID), patch)
	require.NoError(t, err)
	assert.Equal(t, job.ID, updated.ID)
	assert.Equal(t, "Senior Engineer", updated.Position)
	assert.Equal(t, constants.JobStatusInterview, updated.Status)
	assert.True(t, updated.UpdatedAt.After(job.UpdatedAt))
	assert.True(t, job.CreatedAt.Equal(updated.CreatedAt))

	stored, err := repo.Find(ctx, repository.OwnedBy("user_a").ID(job.ID), repository.FindOptions{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, constants.JobModeInternship, stored[0].Mode)
}

func TestJobRepository_DeleteWhere(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	job := insert(t, repo, "user_a", "Engineer", "Acme", constants.JobStatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := repo.DeleteWhere(ctx, repository.OwnedBy("user_b").ID(job.ID))
	require.ErrorIs(t, err, common.ErrNotFound)

	deleted, err := repo.DeleteWhere(ctx, repository.OwnedBy("user_a").ID(job.ID))
	require.NoError(t, err)
	assert.Equal(t, job.ID, deleted.ID)
	assert.Equal(t, "Engineer", deleted.Position)

	_, err = repo.DeleteWhere(ctx, repository.OwnedBy("user_a").ID(job.ID))
	require.ErrorIs(t, err, common.ErrNotFound)

	n, err := repo.Count(ctx, repository.OwnedBy("user_a"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobRepository_NilFilterIsRefused(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	insert(t, repo, "user_a", "Engineer", "Acme", constants.JobStatusPending, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Empty(t, (*repository.JobFilter)(nil).OwnerID())

	_, err := repo.UpdateWhere(ctx, nil, repository.JobPatch{Position: "Lead", Company: "Acme", Location: "Remote",
		Status: constants.JobStatusPending, Mode: constants.JobModeFullTime})
	assert.ErrorIs(t, err, common.ErrUnscopedQuery)

	_, err = repo.DeleteWhere(ctx, nil)
	assert.ErrorIs(t, err, common.ErrUnscopedQuery)

	_, err = repo.Find(ctx, nil, repository.FindOptions{})
	assert.ErrorIs(t, err, common.ErrUnscopedQuery)

	n, err := repo.Count(ctx, repository.OwnedBy("user_a"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDialectOf(t *testing.T) {
	for dsn, want := range map[string]string{
		"postgres://u:p@localhost/jobs":   "postgres",
		"postgresql://localhost/jobs":     "postgres",
		"mysql://u:p@tcp(localhost)/jobs": "mysql",
		"file:jobs.db":                    "sqlite3",
		"sqlite://jobs.db":                "sqlite3",
	} {
		got, err := repository.DialectOf(dsn)
		require.NoError(t, err, dsn)
		assert.Equal(t, want, got, dsn)
	}

	_, err := repository.DialectOf("redis://localhost")
	assert.Error(t, err)
}
