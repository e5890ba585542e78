package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrWordLimitExceeded 当任务摘要超过 300 词时返回，本次编辑被整体拒绝
	ErrWordLimitExceeded = errors.New("task summary exceeds 300 words")
	// ErrDerivedField 当直接编辑派生字段（项目数量）时返回
	ErrDerivedField = errors.New("field is derived from other fields")
)

// Update 是一次编辑产生的局部更新：被编辑字段本身以及它的派生字段。
// 指针为 nil 表示该派生值不受本次编辑影响。
type Update struct {
	Field         Field
	Value         string
	OvertimeHours *string
	OvertimeAuto  *bool
	ProjectCount  *Count
	WordCount     *int
	// ClearOverride 非空时清空该补充说明字段
	ClearOverride Field
}

// Derive 根据编辑前的快照和单次编辑计算局部更新。
// 纯函数：相同输入总是得到相同输出，不读取任何外部状态。
func Derive(prev Snapshot, field Field, value string) (Update, error) {
	if field == FieldActiveProjectsCount {
		return Update{}, fmt.Errorf("%w: %s", ErrDerivedField, field)
	}
	if _, err := prev.Record.Get(field); err != nil {
		return Update{}, err
	}

	update := Update{Field: field, Value: value}

	if override, ok := overrides[field]; ok && !isOther(value) {
		update.ClearOverride = override
	}

	switch field {
	case FieldHoursWorked:
		overtime, auto := deriveOvertime(value)
		update.OvertimeHours = &overtime
		update.OvertimeAuto = &auto
	case FieldOvertimeHours:
		// 手动覆盖加班时长后不再标记为自动计算
		auto := false
		update.OvertimeAuto = &auto
	case FieldProjectNames:
		count := Count(CountProjects(value))
		update.ProjectCount = &count
	case FieldTaskSummary:
		words := WordCount(value)
		if words > TaskSummaryCap {
			return Update{}, ErrWordLimitExceeded
		}
		update.WordCount = &words
	}

	return update, nil
}

// deriveOvertime 超出标准工时 9 小时的部分记为加班，保留两位小数。
// 无法解析时加班为 "0"，不视为错误。
func deriveOvertime(raw string) (string, bool) {
	hours, ok := ParseHours(raw)
	if !ok || hours <= StandardHours {
		return "0", false
	}
	return FormatHours(hours - StandardHours), true
}

// ParseHours 将表单中的工时文本解析为非负小数。
func ParseHours(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, false
	}
	return hours, true
}

// FormatHours 以两位小数输出工时，例如 1.5 -> "1.50"。
func FormatHours(hours float64) string {
	rounded := math.Round(hours*100) / 100
	return strconv.FormatFloat(rounded, 'f', overtimeDecimal, 64)
}

// CountProjects 统计逗号分隔、去除空白后的非空项目名数量。
func CountProjects(names string) int {
	count := 0
	for _, token := range strings.Split(names, ",") {
		if strings.TrimSpace(token) != "" {
			count++
		}
	}
	return count
}

// WordCount 按连续空白切分统计词数。
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ShortHoursReasonRequired 工时可解析且不足 9 小时时需要填写原因。
func ShortHoursReasonRequired(r Record) bool {
	hours, ok := ParseHours(r.HoursWorked)
	return ok && hours < StandardHours
}
