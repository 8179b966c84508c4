package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	repo "github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

// ConnectDB opens the store described by cfg and, when enabled, migrates it.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *zap.Logger) (*repo.Database, error) {
	db, err := repo.Open(ctx, repo.ConfigFrom(cfg), logger)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := repo.Migrate(ctx, db, logger); err != nil {
			CloseDB(db, logger)
			return nil, err
		}
	}
	return db, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, db *repo.Database, logger *zap.Logger, timeout time.Duration) error {
	return repo.HealthCheck(ctx, db, timeout, logger)
}

// CloseDB closes the database connections gracefully
func CloseDB(db *repo.Database, logger *zap.Logger) {
	if db != nil {
		db.Close(logger)
	}
}

// DBPinger adapts a store to the /healthz check.
type DBPinger struct {
	DB      *repo.Database
	Timeout time.Duration
	Logger  *zap.Logger
}

func (p DBPinger) Ping(ctx context.Context) error {
	return PingDB(ctx, p.DB, p.Logger, p.Timeout)
}
