package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field 是日报记录中的字段名，取值与接口 JSON 键一致。
type Field string

const (
	FieldEmployeeID          Field = "Employee_Id"
	FieldFullName            Field = "Full_Name"
	FieldRole                Field = "Designation_Role"
	FieldOtherRole           Field = "Other_Designation_Role"
	FieldDepartment          Field = "Department"
	FieldOtherDepartment     Field = "Other_Department"
	FieldEmploymentType      Field = "Employment_Type"
	FieldShiftType           Field = "Shift_Type"
	FieldWorkDate            Field = "Work_Date"
	FieldWorkStatus          Field = "Work_Status"
	FieldWorkStatusReason    Field = "Work_Status_Reason"
	FieldHoursWorked         Field = "Hours_Worked"
	FieldOvertimeHours       Field = "Overtime_Hours"
	FieldShortHoursReason    Field = "Short_Hours_Reason"
	FieldLeaveType           Field = "Leave_Type"
	FieldActiveProjectsCount Field = "Active_Projects_Count"
	FieldProjectManagerName  Field = "Project_Manager_Name"
	FieldProjectNames        Field = "Project_Names"
	FieldTaskType            Field = "Task_Type"
	FieldOtherTaskType       Field = "Other_Task_Type"
	FieldTaskSummary         Field = "Task_Summary"
	FieldHasBlockers         Field = "Has_Blockers"
	FieldIssueDescription    Field = "Issue_Dependency_Description"
)

// Fields 按表单展示顺序列出全部字段。
var Fields = []Field{
	FieldEmployeeID,
	FieldFullName,
	FieldRole,
	FieldOtherRole,
	FieldDepartment,
	FieldOtherDepartment,
	FieldEmploymentType,
	FieldShiftType,
	FieldWorkDate,
	FieldHoursWorked,
	FieldOvertimeHours,
	FieldShortHoursReason,
	FieldWorkStatus,
	FieldWorkStatusReason,
	FieldLeaveType,
	FieldActiveProjectsCount,
	FieldProjectManagerName,
	FieldProjectNames,
	FieldTaskType,
	FieldOtherTaskType,
	FieldTaskSummary,
	FieldHasBlockers,
	FieldIssueDescription,
}

// ErrUnknownField 在字段名不属于日报记录时返回
var ErrUnknownField = errors.New("unknown field")

// Count 是非负整数计数，JSON 中同时接受数字与数字字符串。
// 浏览器表单提交的 Active_Projects_Count 是字符串。
type Count int

// UnmarshalJSON 兼容 3 与 "3" 两种写法，空字符串视为 0。
func (c *Count) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*c = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*c = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid count %q", raw)
	}
	if n < 0 {
		return fmt.Errorf("count must not be negative: %d", n)
	}
	*c = Count(n)
	return nil
}

// Record 是一条员工日报。所有字段显式声明，可选字段为空字符串表示未填写。
// Hours_Worked 与 Overtime_Hours 保留表单中的原始文本，落库时再解析为小数。
type Record struct {
	EmployeeID          string `json:"Employee_Id" validate:"max=50"`
	FullName            string `json:"Full_Name" validate:"max=100"`
	Role                string `json:"Designation_Role" validate:"omitempty,option=role"`
	OtherRole           string `json:"Other_Designation_Role,omitempty" validate:"max=500"`
	Department          string `json:"Department" validate:"omitempty,option=department"`
	OtherDepartment     string `json:"Other_Department,omitempty" validate:"max=500"`
	EmploymentType      string `json:"Employment_Type" validate:"omitempty,option=employment"`
	ShiftType           string `json:"Shift_Type" validate:"omitempty,option=shift"`
	WorkDate            string `json:"Work_Date" validate:"omitempty,datetime=2006-01-02"`
	WorkStatus          string `json:"Work_Status" validate:"omitempty,option=status"`
	WorkStatusReason    string `json:"Work_Status_Reason,omitempty" validate:"max=2000"`
	HoursWorked         string `json:"Hours_Worked" validate:"omitempty,hours"`
	OvertimeHours       string `json:"Overtime_Hours" validate:"omitempty,hours"`
	ShortHoursReason    string `json:"Short_Hours_Reason,omitempty" validate:"max=2000"`
	LeaveType           string `json:"Leave_Type" validate:"omitempty,option=leave"`
	ActiveProjectsCount Count  `json:"Active_Projects_Count" validate:"min=0"`
	ProjectManagerName  string `json:"Project_Manager_Name" validate:"max=100"`
	ProjectNames        string `json:"Project_Names" validate:"max=500"`
	TaskType            string `json:"Task_Type" validate:"omitempty,option=task"`
	OtherTaskType       string `json:"Other_Task_Type,omitempty" validate:"max=100"`
	TaskSummary         string `json:"Task_Summary" validate:"maxwords=300"`
	HasBlockers         string `json:"Has_Blockers" validate:"omitempty,option=blockers"`
	IssueDescription    string `json:"Issue_Dependency_Description,omitempty" validate:"max=2000"`
}

// Get 返回字段的文本值，计数字段以十进制文本返回。
func (r Record) Get(f Field) (string, error) {
	if f == FieldActiveProjectsCount {
		return strconv.Itoa(int(r.ActiveProjectsCount)), nil
	}
	p := r.textField(f)
	if p == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return *p, nil
}

// Value 与 Get 相同，但对未知字段返回空串。
func (r Record) Value(f Field) string {
	v, _ := r.Get(f)
	return v
}

// set 原样写入文本字段；计数字段只能由派生规则写入。
func (r *Record) set(f Field, value string) error {
	if f == FieldActiveProjectsCount {
		return fmt.Errorf("%w: %s", ErrDerivedField, f)
	}
	p := r.textField(f)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	*p = value
	return nil
}

func (r *Record) textField(f Field) *string {
	switch f {
	case FieldEmployeeID:
		return &r.EmployeeID
	case FieldFullName:
		return &r.FullName
	case FieldRole:
		return &r.Role
	case FieldOtherRole:
		return &r.OtherRole
	case FieldDepartment:
		return &r.Department
	case FieldOtherDepartment:
		return &r.OtherDepartment
	case FieldEmploymentType:
		return &r.EmploymentType
	case FieldShiftType:
		return &r.ShiftType
	case FieldWorkDate:
		return &r.WorkDate
	case FieldWorkStatus:
		return &r.WorkStatus
	case FieldWorkStatusReason:
		return &r.WorkStatusReason
	case FieldHoursWorked:
		return &r.HoursWorked
	case FieldOvertimeHours:
		return &r.OvertimeHours
	case FieldShortHoursReason:
		return &r.ShortHoursReason
	case FieldLeaveType:
		return &r.LeaveType
	case FieldProjectManagerName:
		return &r.ProjectManagerName
	case FieldProjectNames:
		return &r.ProjectNames
	case FieldTaskType:
		return &r.TaskType
	case FieldOtherTaskType:
		return &r.OtherTaskType
	case FieldTaskSummary:
		return &r.TaskSummary
	case FieldHasBlockers:
		return &r.HasBlockers
	case FieldIssueDescription:
		return &r.IssueDescription
	}
	return nil
}

// Label 返回字段在界面中的显示名。
func (f Field) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

var fieldLabels = map[Field]string{
	FieldEmployeeID:          "Employee ID",
	FieldFullName:            "Full Name",
	FieldRole:                "Role & Designation",
	FieldOtherRole:           "Specify Role Details",
	FieldDepartment:          "Department",
	FieldOtherDepartment:     "Specify Department Details",
	FieldEmploymentType:      "Employment Type",
	FieldShiftType:           "Shift",
	FieldWorkDate:            "Work Date",
	FieldWorkStatus:          "Daily Work Status",
	FieldWorkStatusReason:    "Reason for Delay",
	FieldHoursWorked:         "Hours Worked",
	FieldOvertimeHours:       "Overtime Hours",
	FieldShortHoursReason:    "Reason for working less than 9 hours",
	FieldLeaveType:           "Leave Type",
	FieldActiveProjectsCount: "Active Projects Count",
	FieldProjectManagerName:  "Project Manager",
	FieldProjectNames:        "Project Names",
	FieldTaskType:            "Task Type",
	FieldOtherTaskType:       "Specify Task Type",
	FieldTaskSummary:         "Task Summary",
	FieldHasBlockers:         "Are there any blockers?",
	FieldIssueDescription:    "Issue/Dependency Description",
}
