package db

import "time"

// DailyStatus 一条已提交的员工日报。
// 可选说明字段为空时存 NULL；工时为 decimal(4,2)。
type DailyStatus struct {
	ID                         uint      `gorm:"column:Id;primaryKey;autoIncrement"`
	EmployeeID                 string    `gorm:"column:Employee_Id;size:50;not null;index:idx_daily_status_employee_date"`
	FullName                   string    `gorm:"column:Full_Name;size:100;not null"`
	DesignationRole            string    `gorm:"column:Designation_Role;size:100;not null"`
	OtherDesignationRole       *string   `gorm:"column:Other_Designation_Role;size:500"`
	Department                 string    `gorm:"column:Department;size:100;not null"`
	OtherDepartment            *string   `gorm:"column:Other_Department;size:500"`
	EmploymentType             string    `gorm:"column:Employment_Type;size:30;not null"`
	ShiftType                  string    `gorm:"column:Shift_Type;size:30;not null"`
	WorkDate                   time.Time `gorm:"column:Work_Date;type:date;not null;index:idx_daily_status_employee_date"`
	WorkStatus                 string    `gorm:"column:Work_Status;size:20;not null"`
	WorkStatusReason           *string   `gorm:"column:Work_Status_Reason;type:text"`
	HoursWorked                float64   `gorm:"column:Hours_Worked;type:decimal(4,2);not null"`
	OvertimeHours              float64   `gorm:"column:Overtime_Hours;type:decimal(4,2);not null;default:0"`
	ShortHoursReason           *string   `gorm:"column:Short_Hours_Reason;type:text"`
	LeaveType                  string    `gorm:"column:Leave_Type;size:30;not null"`
	ActiveProjectsCount        int       `gorm:"column:Active_Projects_Count;not null"`
	ProjectManagerName         string    `gorm:"column:Project_Manager_Name;size:100;not null"`
	ProjectNames               string    `gorm:"column:Project_Names;size:500;not null"`
	TaskType                   string    `gorm:"column:Task_Type;size:50;not null"`
	OtherTaskType              *string   `gorm:"column:Other_Task_Type;size:100"`
	TaskSummary                string    `gorm:"column:Task_Summary;type:text;not null"`
	HasBlockers                string    `gorm:"column:Has_Blockers;size:3;not null"`
	IssueDependencyDescription *string   `gorm:"column:Issue_Dependency_Description;type:text"`
	CreatedAt                  time.Time `gorm:"column:Created_At"`
}

// TableName 与既有库表保持一致
func (DailyStatus) TableName() string {
	return "Employee_Daily_Status"
}
