package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/repository"
)

// SheetName is the worksheet jobs are written to.
const SheetName = "Jobs"

const dateLayout = "2006-01-02"

var headers = []string{
	"Position",
	"Company",
	"Location",
	"Status",
	"Mode",
	"Applied",
	"Updated",
}

// ExportParams narrows an export the same way the list view does.
type ExportParams struct {
	Search string
	Status string
}

// Service is a tiny façade over the job repository that produces XLSX bytes.
type Service struct {
	repo   repository.JobRepository
	logger *zap.Logger
}

func NewService(repo repository.JobRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportJobsXLSX returns a workbook with every matching job of ownerID, newest first.
func (s *Service) ExportJobsXLSX(ctx context.Context, ownerID string, params ExportParams) ([]byte, error) {
	start := time.Now()

	filter := repository.OwnedBy(ownerID).
		Search(strings.TrimSpace(params.Search)).
		Status(params.Status)
	jobs, err := s.repo.Find(ctx, filter, repository.FindOptions{Order: repository.NewestFirst})
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, job := range jobs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, job.Position)
		write(2, job.Company)
		write(3, job.Location)
		write(4, string(job.Status))
		write(5, string(job.Mode))
		write(6, job.CreatedAt.UTC().Format(dateLayout))
		write(7, job.UpdatedAt.UTC().Format(dateLayout))
	}

	_ = f.SetColWidth(SheetName, "A", "C", 28)
	_ = f.SetColWidth(SheetName, "D", "E", 14)
	_ = f.SetColWidth(SheetName, "F", "G", 12)
	_ = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		zap.String("owner_id", ownerID),
		zap.Int("rows", len(jobs)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}
