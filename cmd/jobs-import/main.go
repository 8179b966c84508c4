package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/ingest"
	repo "github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/server"
)

var (
	owner    string
	watch    bool
	debounce time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "jobs-import --owner <id> <file|dir>...",
	Short: "Bulk import job applications from JSON or YAML files",
	Long: `Imports arrays of job records (position, company, location, status, mode and an
optional RFC 3339 createdAt) for one owner. Directories are walked recursively.

With --watch, files later dropped into the given directories are imported too,
until interrupted.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	rootCmd.Flags().StringVar(&owner, "owner", "", "owner id the jobs are imported for (required)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "keep watching directories for new files")
	rootCmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "coalesce bursts of file events")
	_ = rootCmd.MarkFlagRequired("owner")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := common.LoadConfig()
	logger, err := common.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer server.CloseDB(db, logger)

	importer := ingest.NewImporter(repo.NewJobRepository(db.Driver, logger), logger)
	res, err := importer.ImportPaths(ctx, owner, args)
	printResult(cmd, res)
	if err != nil {
		return err
	}
	if !watch {
		return nil
	}

	return watchDirs(ctx, cmd, importer, dirsOf(args), logger)
}

func watchDirs(ctx context.Context, cmd *cobra.Command, importer *ingest.Importer, dirs []string, logger *zap.Logger) error {
	if len(dirs) == 0 {
		return errors.New("--watch needs at least one directory")
	}
	files, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{Roots: dirs, Debounce: debounce}, logger)
	if err != nil {
		return err
	}
	logger.Info("watching for import files", zap.Strings("dirs", dirs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-files:
			if !ok {
				return nil
			}
			res, err := importer.ImportFile(ctx, owner, path)
			printResult(cmd, res)
			if err != nil {
				logger.Error("import failed", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func dirsOf(paths []string) []string {
	var dirs []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
		}
	}
	return dirs
}

func printResult(cmd *cobra.Command, res ingest.Result) {
	cmd.Printf("imported %d, skipped %d\n", res.Imported, res.Skipped)
	for _, p := range res.Problems {
		cmd.Printf("  - %s\n", p)
	}
}
