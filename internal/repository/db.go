package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ConfigFrom maps the application database config onto the repository config.
func ConfigFrom(cfg common.DatabaseConfig) Config {
	return Config{
		DSN:              cfg.DSN,
		MaxConns:         cfg.MaxConns,
		MinConns:         cfg.MinConns,
		MaxConnLifetime:  cfg.MaxConnLifetime,
		MaxConnIdleTime:  cfg.MaxConnIdleTime,
		DialTimeout:      cfg.DialTimeout,
		StatementTimeout: cfg.StatementTimeout,
	}
}

// Database bundles the ent SQL driver with the pool underneath it.
// Pool is only set for postgres.
type Database struct {
	Driver  *entsql.Driver
	Dialect string
	Pool    *pgxpool.Pool
	DB      *sql.DB
}

// Open picks the dialect from the DSN scheme, opens the pool and wraps it for ent.
//
//	postgres://, postgresql://  pgx pool
//	mysql://                     go-sql-driver/mysql
//	file:, sqlite://             modernc.org/sqlite
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Database, error) {
	d, err := DialectOf(cfg.DSN)
	if err != nil {
		logger.Error("unsupported database url", zap.Error(err))
		return nil, err
	}
	logger.Info("connecting to database", zap.String("dialect", d))

	var database *Database
	switch d {
	case dialect.Postgres:
		database, err = openPostgres(ctx, cfg)
	case dialect.MySQL:
		database, err = openMySQL(cfg)
	default:
		database, err = openSQLite(cfg)
	}
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return nil, err
	}

	if err := HealthCheck(ctx, database, cfg.DialTimeout, logger); err != nil {
		database.Close(logger)
		return nil, err
	}

	logger.Info("successfully connected to database", zap.String("dialect", d))
	return database, nil
}

// DialectOf reports the ent dialect implied by the DSN scheme.
func DialectOf(dsn string) (string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return dialect.Postgres, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return dialect.MySQL, nil
	case strings.HasPrefix(dsn, "file:"), strings.HasPrefix(dsn, "sqlite://"):
		return dialect.SQLite, nil
	}
	return "", common.NewAppError("CONFIG_ERROR", "DB_URL must start with postgres://, mysql://, sqlite:// or file:", common.ErrInvalidInput)
}

func openPostgres(ctx context.Context, cfg Config) (*Database, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "jobs-tracker"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}

	dialCtx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, err
	}

	// Wrap pool as *sql.DB for ent
	db := stdlib.OpenDBFromPool(pool)
	return &Database{
		Driver:  entsql.OpenDB(dialect.Postgres, db),
		Dialect: dialect.Postgres,
		Pool:    pool,
		DB:      db,
	}, nil
}

func openMySQL(cfg Config) (*Database, error) {
	mc, err := mysql.ParseDSN(strings.TrimPrefix(cfg.DSN, "mysql://"))
	if err != nil {
		return nil, err
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	if cfg.DialTimeout > 0 {
		mc.Timeout = cfg.DialTimeout
	}

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, err
	}
	tunePool(db, cfg)
	return &Database{
		Driver:  entsql.OpenDB(dialect.MySQL, db),
		Dialect: dialect.MySQL,
		DB:      db,
	}, nil
}

func openSQLite(cfg Config) (*Database, error) {
	dsn := cfg.DSN
	if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		dsn = "file:" + rest
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	tunePool(db, cfg)
	return &Database{
		Driver:  entsql.OpenDB(dialect.SQLite, db),
		Dialect: dialect.SQLite,
		DB:      db,
	}, nil
}

func tunePool(db *sql.DB, cfg Config) {
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(int(cfg.MinConns))
	}
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
}

// Close closes the database connections gracefully
func (d *Database) Close(logger *zap.Logger) {
	logger.Info("closing database connections")
	if d.Driver != nil {
		if err := d.Driver.Close(); err != nil {
			logger.Error("failed to close database driver", zap.Error(err))
		}
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the store to catch DSN issues early.
func HealthCheck(ctx context.Context, d *Database, timeout time.Duration, logger *zap.Logger) error {
	logger.Debug("pinging database")
	ctx, cancel := common.WithTimeout(ctx, timeout)
	defer cancel()

	var err error
	if d.Pool != nil {
		err = d.Pool.Ping(ctx)
	} else {
		err = d.DB.PingContext(ctx)
	}
	if err != nil {
		logger.Error("database ping failed", zap.Error(err))
		return common.DatabaseError("ping", err)
	}
	logger.Debug("database ping successful")
	return nil
}
