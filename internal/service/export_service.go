package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dailystatus/internal/form"
)

// ErrExportNoRecords 导出区间内没有日报
var ErrExportNoRecords = errors.New("no daily status records in range")

// ExportSheetName 导出工作表名称
const ExportSheetName = "Daily Status"

// ExportService 将日报导出为 Excel。
// 每行一条记录，列顺序与表单字段一致，最后一列为提交时间。
type ExportService struct {
	statuses *StatusService
	logger   *zap.Logger
}

// NewExportService 构造 ExportService
func NewExportService(statuses *StatusService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{statuses: statuses, logger: logger}
}

// ExportDailyStatus 返回 xlsx 内容与建议文件名
func (s *ExportService) ExportDailyStatus(ctx context.Context, filter StatusFilter) (*bytes.Buffer, string, error) {
	statuses, err := s.statuses.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	if len(statuses) == 0 {
		return nil, "", ErrExportNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(form.Fields)+1)
	for _, field := range form.Fields {
		header = append(header, string(field))
	}
	header = append(header, "Created_At")
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(ExportSheetName, 1, 1, bold)
	}

	for i, status := range statuses {
		record := ToRecord(status)
		row := make([]interface{}, 0, len(form.Fields)+1)
		for _, field := range form.Fields {
			if field == form.FieldActiveProjectsCount {
				row = append(row, int(record.ActiveProjectsCount))
				continue
			}
			row = append(row, record.Value(field))
		}
		row = append(row, status.CreatedAt.Format("2006-01-02 15:04:05"))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, "", fmt.Errorf("locate row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("generate export workbook failed", zap.Error(err))
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("daily status exported", zap.Int("rows", len(statuses)))
	return buf, exportFilename(filter, len(statuses)), nil
}

func exportFilename(filter StatusFilter, rows int) string {
	name := "daily-status"
	if !filter.From.IsZero() {
		name += "-" + filter.From.Format(form.DateLayout)
	}
	if !filter.To.IsZero() {
		name += "-to-" + filter.To.Format(form.DateLayout)
	}
	return name + "-" + strconv.Itoa(rows) + ".xlsx"
}
