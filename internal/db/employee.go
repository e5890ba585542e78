package db

// Employee 员工主数据，仅用于按编号回填身份字段
type Employee struct {
	EmployeeID      string `gorm:"column:Employee_Id;primaryKey;size:50"`
	FullName        string `gorm:"column:Full_Name;size:100;not null"`
	DesignationRole string `gorm:"column:Designation_Role;size:100"`
	Department      string `gorm:"column:Department;size:100"`
}

// TableName 与既有库表保持一致
func (Employee) TableName() string {
	return "Employees"
}
