package form

import "strings"

// DefaultLookupMinLength 员工编号达到该长度才触发自动查询
const DefaultLookupMinLength = 4

// LookupRequest 携带触发查询时的员工编号，用于识别过期响应。
type LookupRequest struct {
	EmployeeID string
}

// LookupResult 是按编号查询到的员工身份信息
type LookupResult struct {
	EmployeeID string `json:"Employee_Id"`
	FullName   string `json:"Full_Name"`
	Role       string `json:"Designation_Role"`
	Department string `json:"Department"`
}

// ShouldLookup 判断编号是否足够长，值得发起查询。
func ShouldLookup(id string, minLen int) bool {
	if minLen <= 0 {
		minLen = DefaultLookupMinLength
	}
	return len(strings.TrimSpace(id)) >= minLen
}

// ApplyLookup 用查询结果填充身份字段。
// 结果编号与快照当前编号不一致时视为过期，快照不变并返回 false。
// 不在选项中的职位/部门以 "Other" 加补充说明的形式填入；结果中为空的字段保留原值。
func ApplyLookup(s Snapshot, result LookupResult) (Snapshot, bool) {
	current := strings.TrimSpace(s.Record.EmployeeID)
	if current == "" || strings.TrimSpace(result.EmployeeID) != current {
		return s, false
	}

	var edits []Edit
	if name := strings.TrimSpace(result.FullName); name != "" {
		edits = append(edits, Edit{Field: FieldFullName, Value: name})
	}
	edits = append(edits, optionEdits(FieldRole, FieldOtherRole, RoleOptions, result.Role)...)
	edits = append(edits, optionEdits(FieldDepartment, FieldOtherDepartment, DepartmentOptions, result.Department)...)

	next, _ := Replay(s, edits...)
	return next, true
}

func optionEdits(field, other Field, options []string, value string) []Edit {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return nil
	case HasOption(options, value):
		return []Edit{{Field: field, Value: value}}
	default:
		return []Edit{{Field: field, Value: OptionOther}, {Field: other, Value: value}}
	}
}
