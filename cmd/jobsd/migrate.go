package main

import (
	"github.com/spf13/cobra"

	repo "github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the jobs table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := repo.Open(ctx, repo.ConfigFrom(cfg.Database), logger)
		if err != nil {
			return err
		}
		defer db.Close(logger)

		return repo.Migrate(ctx, db, logger)
	},
}
