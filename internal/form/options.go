package form

import "strings"

// 选项值与前端下拉框保持一致。
const (
	OptionOther     = "Other"
	StatusOnTrack   = "On Track"
	StatusDelayed   = "Delayed"
	BlockersYes     = "Yes"
	BlockersNo      = "No"
	LeaveNone       = "None"
	DateLayout      = "2006-01-02"
	StandardHours   = 9.0
	TaskSummaryCap  = 300
	overtimeDecimal = 2
)

var (
	RoleOptions = []string{
		"Associate Data Analyst", "Associate Data Engineer", "Data Engineer",
		"Data Analyst", "Data Scientist", "Manager Data Science",
		"Data Engineer Lead", "Data Analyst Lead", "Associate Data Scientist",
		"Data Scientist Lead", "HR Generalist", "Senior HR Generalist", OptionOther,
	}
	DepartmentOptions     = []string{"Data Engineering", "Data Analytics", "Data Science", "HR", OptionOther}
	EmploymentTypeOptions = []string{"Full-time", "Part-time", "Contract", "Internship"}
	ShiftOptions          = []string{"General", "Night", "Rotational"}
	WorkStatusOptions     = []string{StatusOnTrack, StatusDelayed}
	LeaveTypeOptions      = []string{LeaveNone, "Sick Leave", "Casual Leave", "Paid Leave", "Unpaid Leave"}
	TaskTypeOptions       = []string{"Client Project", "Internal Task", "Training", "Innovation", OptionOther}
	HasBlockersOptions    = []string{BlockersNo, BlockersYes}
)

// OptionSets 以校验标签参数为键，供 validator 的 option 规则查找。
var OptionSets = map[string][]string{
	"role":       RoleOptions,
	"department": DepartmentOptions,
	"employment": EmploymentTypeOptions,
	"shift":      ShiftOptions,
	"status":     WorkStatusOptions,
	"leave":      LeaveTypeOptions,
	"task":       TaskTypeOptions,
	"blockers":   HasBlockersOptions,
}

var fieldOptions = map[Field][]string{
	FieldRole:           RoleOptions,
	FieldDepartment:     DepartmentOptions,
	FieldEmploymentType: EmploymentTypeOptions,
	FieldShiftType:      ShiftOptions,
	FieldWorkStatus:     WorkStatusOptions,
	FieldLeaveType:      LeaveTypeOptions,
	FieldTaskType:       TaskTypeOptions,
	FieldHasBlockers:    HasBlockersOptions,
}

// Options 返回枚举字段的可选值；自由文本字段返回 nil。
func Options(f Field) []string {
	return fieldOptions[f]
}

// HasOption 判断 value 是否为选项之一（忽略首尾空白，区分大小写）。
func HasOption(options []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

// overrides 选项字段到其 "Other" 补充说明字段的映射
var overrides = map[Field]Field{
	FieldRole:       FieldOtherRole,
	FieldDepartment: FieldOtherDepartment,
	FieldTaskType:   FieldOtherTaskType,
}

// OverrideParent 返回补充说明字段所依附的选项字段。
func OverrideParent(field Field) (Field, bool) {
	for parent, override := range overrides {
		if override == field {
			return parent, true
		}
	}
	return "", false
}
