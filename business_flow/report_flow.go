// Package businessflow contains the core business logic and use cases for tagging workflows
package businessflow

import (
	"context"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tagforge/tagforge/models"
	"github.com/tagforge/tagforge/repository"
)

// ReportFlow builds downloadable hashtag usage reports
type ReportFlow interface {
	DownloadHashtagsExcel(ctx context.Context) (string, []byte, error)
}

// ReportFlowImpl implements the report business flow
type ReportFlowImpl struct {
	hashtagRepo repository.HashtagRepository
}

// NewReportFlow creates a new report flow instance
func NewReportFlow(hashtagRepo repository.HashtagRepository) ReportFlow {
	return &ReportFlowImpl{hashtagRepo: hashtagRepo}
}

// DownloadHashtagsExcel exports every hashtag with its usage counters as an
// Excel workbook, most used first
func (f *ReportFlowImpl) DownloadHashtagsExcel(ctx context.Context) (string, []byte, error) {
	hashtags, err := f.hashtagRepo.ByFilter(ctx, models.HashtagFilter{}, "count DESC, name ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_HASHTAGS_FAILED", "Failed to fetch hashtags", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "hashtags"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"id", "name", "slug", "count", "last_used", "created_at", "updated_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, h := range hashtags {
		lastUsed := ""
		if h.LastUsed != nil {
			lastUsed = h.LastUsed.UTC().Format(time.RFC3339)
		}
		record := []string{
			h.ID.String(),
			h.Name,
			h.Slug,
			strconv.FormatInt(h.Count, 10),
			lastUsed,
			h.CreatedAt.UTC().Format(time.RFC3339),
			h.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := "hashtags_report.xlsx"
	return filename, buf.Bytes(), nil
}
