package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/services/jobs"
)

// Result summarizes one import.
type Result struct {
	Imported int
	Skipped  int
	Problems []string
}

func (r *Result) add(o Result) {
	r.Imported += o.Imported
	r.Skipped += o.Skipped
	r.Problems = append(r.Problems, o.Problems...)
}

// Importer loads job records for a single owner, validating each one the same
// way the API does.
type Importer struct {
	repo     repository.JobRepository
	notifier jobs.Notifier
	logger   *zap.Logger
}

func NewImporter(repo repository.JobRepository, logger *zap.Logger) *Importer {
	return &Importer{repo: repo, logger: logger}
}

// WithNotifier emits a created event for every imported job.
func (im *Importer) WithNotifier(n jobs.Notifier) *Importer {
	im.notifier = n
	return im
}

// Import validates and inserts records. Invalid records are skipped; a store
// failure stops the import and is returned along with the partial result.
func (im *Importer) Import(ctx context.Context, ownerID string, records []Record) (Result, error) {
	var res Result
	if ownerID == "" {
		return res, common.ErrUnscopedQuery
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fields, err := jobs.Validate(rec.Input())
		if err != nil {
			res.Skipped++
			res.Problems = append(res.Problems, fmt.Sprintf("record %d: %v", i, err))
			im.logger.Warn("skipping invalid record", zap.Int("index", i), zap.Error(err))
			continue
		}

		var opts []repository.InsertOption
		if rec.CreatedAt != nil {
			opts = append(opts, repository.WithCreatedAt(*rec.CreatedAt))
		}
		job, err := im.repo.Insert(ctx, &entity.Job{
			OwnerID:  ownerID,
			Position: fields.Position,
			Company:  fields.Company,
			Location: fields.Location,
			Status:   fields.Status,
			Mode:     fields.Mode,
		}, opts...)
		if err != nil {
			im.logger.Error("import aborted", zap.Int("index", i), zap.Int("imported", res.Imported), zap.Error(err))
			return res, err
		}
		res.Imported++

		if im.notifier != nil {
			im.notifier.Notify(ctx, entity.JobEvent{
				Type:       entity.JobCreated,
				JobID:      job.ID,
				OwnerID:    job.OwnerID,
				OccurredAt: job.CreatedAt,
			})
		}
	}

	im.logger.Info("import finished",
		zap.String("owner_id", ownerID),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// ImportFile loads path and imports its records. A file that cannot be parsed
// counts as one skipped entry.
func (im *Importer) ImportFile(ctx context.Context, ownerID, path string) (Result, error) {
	records, err := LoadFile(path)
	if err != nil {
		im.logger.Warn("skipping unreadable import file", zap.String("path", path), zap.Error(err))
		return Result{Skipped: 1, Problems: []string{err.Error()}}, nil
	}
	res, err := im.Import(ctx, ownerID, records)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// ImportPaths imports every file in paths. Directories are walked recursively,
// skipping hidden entries and files that are not json, yaml or yml.
func (im *Importer) ImportPaths(ctx context.Context, ownerID string, paths []string) (Result, error) {
	files, err := CollectFiles(paths)
	if err != nil {
		return Result{}, err
	}
	var total Result
	for _, f := range files {
		res, err := im.ImportFile(ctx, ownerID, f)
		total.add(res)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// CollectFiles expands paths into a sorted, de-duplicated list of importable files.
func CollectFiles(paths []string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			seen[p] = struct{}{}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path != p && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && allowedPath(path) {
				seen[path] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(seen) == 0 {
		return nil, errors.New("no importable files found")
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}
