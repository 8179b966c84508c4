package repository

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/constants"
)

const jobsTable = "jobs"

// Column names of the jobs table.
const (
	colID        = "id"
	colOwnerID   = "owner_id"
	colPosition  = "position"
	colCompany   = "company"
	colLocation  = "location"
	colStatus    = "status"
	colMode      = "mode"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

var jobColumnNames = []string{
	colID, colOwnerID, colPosition, colCompany, colLocation,
	colStatus, colMode, colCreatedAt, colUpdatedAt,
}

var (
	// JobsColumns holds the columns for the "jobs" table.
	JobsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeUUID, Unique: true},
		{Name: colOwnerID, Type: field.TypeString, Size: 191},
		{Name: colPosition, Type: field.TypeString},
		{Name: colCompany, Type: field.TypeString},
		{Name: colLocation, Type: field.TypeString},
		{Name: colStatus, Type: field.TypeEnum, Enums: constants.StatusStrings(), Default: string(constants.JobStatusPending)},
		{Name: colMode, Type: field.TypeEnum, Enums: constants.ModeStrings(), Default: string(constants.JobModeFullTime)},
		{Name: colCreatedAt, Type: field.TypeTime, SchemaType: map[string]string{dialect.MySQL: "datetime(6)"}},
		{Name: colUpdatedAt, Type: field.TypeTime, SchemaType: map[string]string{dialect.MySQL: "datetime(6)"}},
	}
	// JobsTable holds the schema information for the "jobs" table.
	JobsTable = &schema.Table{
		Name:       jobsTable,
		Columns:    JobsColumns,
		PrimaryKey: []*schema.Column{JobsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "job_owner_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{JobsColumns[1], JobsColumns[7]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		JobsTable,
	}
)

// Migrate creates or upgrades the jobs table. Columns and indexes are never dropped.
func Migrate(ctx context.Context, db *Database, logger *zap.Logger) error {
	logger.Info("running schema migration", zap.String("dialect", db.Dialect))
	m, err := schema.NewMigrate(db.Driver)
	if err != nil {
		logger.Error("failed to create migrator", zap.Error(err))
		return err
	}
	if err := m.Create(ctx, Tables...); err != nil {
		logger.Error("schema migration failed", zap.Error(err))
		return err
	}
	logger.Info("schema migration complete")
	return nil
}
