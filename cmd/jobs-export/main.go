package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/export"
	repo "github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

var (
	owner  string
	search string
	status string
	out    string
)

var rootCmd = &cobra.Command{
	Use:          "jobs-export --owner <id>",
	Short:        "Write an owner's job applications to an XLSX workbook",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	rootCmd.Flags().StringVar(&owner, "owner", "", "owner id to export (required)")
	rootCmd.Flags().StringVar(&search, "search", "", "only jobs whose position or company contains this text")
	rootCmd.Flags().StringVar(&status, "status", "all", "pending, interview, declined or all")
	rootCmd.Flags().StringVarP(&out, "out", "o", "jobs.xlsx", "output XLSX file path")
	_ = rootCmd.MarkFlagRequired("owner")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := common.LoadConfig()
	logger, err := common.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()
	db, err := repo.Open(ctx, repo.ConfigFrom(cfg.Database), logger)
	if err != nil {
		return err
	}
	defer db.Close(logger)

	svc := export.NewService(repo.NewJobRepository(db.Driver, logger), logger)
	data, err := svc.ExportJobsXLSX(ctx, owner, export.ExportParams{Search: search, Status: status})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Info("export written", zap.String("path", out), zap.Int("bytes", len(data)))
	cmd.Printf("wrote %s\n", out)
	return nil
}
