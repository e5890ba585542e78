package form

import (
	"sort"
	"strings"
)

// Requirement 描述条件必填：When 成立时 Field 必须填写。
type Requirement struct {
	Field Field
	When  func(Record) bool
}

// StaticRequired 无条件必填的字段
var StaticRequired = []Field{
	FieldEmployeeID,
	FieldFullName,
	FieldRole,
	FieldDepartment,
	FieldEmploymentType,
	FieldShiftType,
	FieldWorkDate,
	FieldHoursWorked,
	FieldLeaveType,
	FieldProjectNames,
	FieldProjectManagerName,
	FieldTaskType,
	FieldTaskSummary,
	FieldHasBlockers,
}

// ConditionalRequired 条件必填表，每次查询时基于当前记录重新求值。
var ConditionalRequired = []Requirement{
	{Field: FieldOtherRole, When: func(r Record) bool { return isOther(r.Role) }},
	{Field: FieldOtherDepartment, When: func(r Record) bool { return isOther(r.Department) }},
	{Field: FieldOtherTaskType, When: func(r Record) bool { return isOther(r.TaskType) }},
	{Field: FieldShortHoursReason, When: ShortHoursReasonRequired},
	{Field: FieldWorkStatusReason, When: func(r Record) bool { return strings.TrimSpace(r.WorkStatus) == StatusDelayed }},
	{Field: FieldIssueDescription, When: func(r Record) bool { return strings.TrimSpace(r.HasBlockers) == BlockersYes }},
}

func isOther(v string) bool {
	return strings.TrimSpace(v) == OptionOther
}

var fieldOrder = func() map[Field]int {
	order := make(map[Field]int, len(Fields))
	for i, f := range Fields {
		order[f] = i
	}
	return order
}()

// RequiredFields 返回当前必填字段集合，按表单顺序排列。
func RequiredFields(r Record) []Field {
	required := make([]Field, 0, len(StaticRequired)+len(ConditionalRequired))
	required = append(required, StaticRequired...)
	for _, req := range ConditionalRequired {
		if req.When(r) {
			required = append(required, req.Field)
		}
	}
	sort.SliceStable(required, func(i, j int) bool {
		return fieldOrder[required[i]] < fieldOrder[required[j]]
	})
	return required
}

// IsRequired 判断字段在当前记录下是否必填
func IsRequired(r Record, f Field) bool {
	for _, req := range RequiredFields(r) {
		if req == f {
			return true
		}
	}
	return false
}

// MissingFields 返回必填但为空的字段
func MissingFields(r Record) []Field {
	var missing []Field
	for _, f := range RequiredFields(r) {
		if strings.TrimSpace(r.Value(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsSubmittable 所有必填字段均已填写
func IsSubmittable(r Record) bool {
	return len(MissingFields(r)) == 0
}

// Validate 返回 *ValidationError 列出缺失字段，全部填写时返回 nil。
func Validate(r Record) error {
	missing := MissingFields(r)
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

// ValidationError 提交前校验失败：缺失的必填字段，以及格式不合法的字段。
type ValidationError struct {
	Missing []Field
	Invalid map[Field]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		names := make([]string, 0, len(e.Missing))
		for _, f := range e.Missing {
			names = append(names, string(f))
		}
		parts = append(parts, "missing required fields: "+strings.Join(names, ", "))
	}
	if len(e.Invalid) > 0 {
		fields := make([]string, 0, len(e.Invalid))
		for f := range e.Invalid {
			fields = append(fields, string(f))
		}
		sort.Strings(fields)
		for i, f := range fields {
			fields[i] = f + " " + e.Invalid[Field(f)]
		}
		parts = append(parts, "invalid fields: "+strings.Join(fields, "; "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}
