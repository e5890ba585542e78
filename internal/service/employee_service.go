package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailystatus/internal/db"
)

var (
	// ErrEmployeeNotFound 在指定员工编号不存在时返回
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrEmployeeInvalid 员工编号或姓名为空
	ErrEmployeeInvalid = errors.New("employee id and full name are required")
)

// EmployeeService 负责员工主数据的查询与导入
type EmployeeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// EmployeeInput 导入员工时的字段
type EmployeeInput struct {
	EmployeeID      string
	FullName        string
	DesignationRole string
	Department      string
}

// NewEmployeeService 构造 EmployeeService
func NewEmployeeService(gdb *gorm.DB, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{db: gdb, logger: logger}
}

// LookupByID 根据员工编号查询身份信息
func (s *EmployeeService) LookupByID(ctx context.Context, employeeID string) (*db.Employee, error) {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return nil, ErrEmployeeNotFound
	}

	var employee db.Employee
	err := s.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "Employee_Id"}, Value: id}).
		First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("lookup employee: %w", err)
	}
	return &employee, nil
}

// Count 返回员工目录中的记录数
func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&db.Employee{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}

// Upsert 按编号新增或覆盖员工信息
func (s *EmployeeService) Upsert(ctx context.Context, input EmployeeInput) (*db.Employee, error) {
	employee := db.Employee{
		EmployeeID:      strings.TrimSpace(input.EmployeeID),
		FullName:        strings.TrimSpace(input.FullName),
		DesignationRole: strings.TrimSpace(input.DesignationRole),
		Department:      strings.TrimSpace(input.Department),
	}
	if employee.EmployeeID == "" || employee.FullName == "" {
		return nil, ErrEmployeeInvalid
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "Employee_Id"}},
		DoUpdates: clause.AssignmentColumns([]string{"Full_Name", "Designation_Role", "Department"}),
	}).Create(&employee).Error; err != nil {
		return nil, fmt.Errorf("upsert employee: %w", err)
	}

	s.logger.Debug("employee upserted", zap.String("employee_id", employee.EmployeeID))
	return &employee, nil
}
