// Package repotest opens migrated throwaway stores for tests.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

// SQLiteDSN returns a DSN for a fresh database file under dir.
func SQLiteDSN(dir string) string {
	return "file:" + filepath.Join(dir, "jobs.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// NewSQLite opens and migrates a SQLite store that is closed when the test ends.
func NewSQLite(t testing.TB) *repository.Database {
	t.Helper()
	logger := zaptest.NewLogger(t)

	db, err := repository.Open(context.Background(), repository.Config{
		DSN:      SQLiteDSN(t.TempDir()),
		MaxConns: 4,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })

	require.NoError(t, repository.Migrate(context.Background(), db, logger))
	return db
}
