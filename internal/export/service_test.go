package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository/repotest"
)

func TestExportJobsXLSX(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	db := repotest.NewSQLite(t)
	repo := repository.NewJobRepository(db.Driver, logger)

	add := func(owner, position string, status constants.JobStatus, at time.Time) {
		_, err := repo.Insert(ctx, &entity.Job{
			OwnerID:  owner,
			Position: position,
			Company:  "Acme",
			Location: "Remote",
			Status:   status,
			Mode:     constants.JobModeFullTime,
		}, repository.WithCreatedAt(at))
		require.NoError(t, err)
	}
	add("user_a", "Older", constants.JobStatusPending, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	add("user_a", "Newer", constants.JobStatusInterview, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	add("user_b", "Foreign", constants.JobStatusPending, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	svc := NewService(repo, logger)
	data, err := svc.ExportJobsXLSX(ctx, "user_a", ExportParams{Status: "all"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, []string{"Newer", "Acme", "Remote", "interview", "full-time", "2024-03-04", "2024-03-04"}, rows[1])
	assert.Equal(t, "Older", rows[2][0])

	data, err = svc.ExportJobsXLSX(ctx, "user_a", ExportParams{Status: "pending"})
	require.NoError(t, err)
	f2, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f2.Close() }()
	rows, err = f2.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Older", rows[1][0])
}

func TestExportJobsXLSX_RequiresOwner(t *testing.T) {
	db := repotest.NewSQLite(t)
	logger := zaptest.NewLogger(t)
	svc := NewService(repository.NewJobRepository(db.Driver, logger), logger)

	_, err := svc.ExportJobsXLSX(context.Background(), "", ExportParams{})
	require.Error(t, err)
}
