package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	ErrImportNoData    = errors.New("employee file has no data rows (first row is the header)")
	ErrImportBadHeader = errors.New("employee file header must contain Employee_Id and Full_Name")
)

// ImportEmployeeRow 导入文件中的一行，Row 为 1 起始的文件行号
type ImportEmployeeRow struct {
	Row int
	EmployeeInput
}

// ReadEmployeeFile 按扩展名解析 .csv 或 .xlsx 员工表
func ReadEmployeeFile(name string, r io.Reader) ([]ImportEmployeeRow, error) {
	var records [][]string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		records, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("read sheet: %w", err)
		}
	default:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		var err error
		records, err = reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
	}
	return ParseEmployeeRows(records)
}

// ParseEmployeeRows 解析带表头的员工行，列顺序不限，表头大小写不敏感。
func ParseEmployeeRows(records [][]string) ([]ImportEmployeeRow, error) {
	if len(records) < 2 {
		return nil, ErrImportNoData
	}

	col := parseEmployeeHeader(records[0])
	if col["id"] < 0 || col["name"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		if idx := col[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportEmployeeRow
	for i, record := range records[1:] {
		item := ImportEmployeeRow{
			Row: i + 2,
			EmployeeInput: EmployeeInput{
				EmployeeID:      cell(record, "id"),
				FullName:        cell(record, "name"),
				DesignationRole: cell(record, "role"),
				Department:      cell(record, "department"),
			},
		}
		// 跳过全空行
		if item.EmployeeID == "" && item.FullName == "" && item.DesignationRole == "" && item.Department == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	return rows, nil
}

func parseEmployeeHeader(header []string) map[string]int {
	idx := map[string]int{"id": -1, "name": -1, "role": -1, "department": -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "employee_id", "employee id", "id":
			idx["id"] = i
		case "full_name", "full name", "name":
			idx["name"] = i
		case "designation_role", "designation", "role":
			idx["role"] = i
		case "department":
			idx["department"] = i
		}
	}
	return idx
}

// ImportResult 汇总一次导入
type ImportResult struct {
	Total    int
	Imported int
	Failed   map[int]string
}

// Import 逐行写入员工，单行失败不影响其余行。
func (s *EmployeeService) Import(ctx context.Context, rows []ImportEmployeeRow) ImportResult {
	result := ImportResult{Total: len(rows), Failed: make(map[int]string)}
	for _, row := range rows {
		if _, err := s.Upsert(ctx, row.EmployeeInput); err != nil {
			s.logger.Warn("import employee failed", zap.Int("row", row.Row), zap.Error(err))
			result.Failed[row.Row] = err.Error()
			continue
		}
		result.Imported++
	}
	s.logger.Info("employees imported", zap.Int("total", result.Total), zap.Int("imported", result.Imported))
	return result
}
