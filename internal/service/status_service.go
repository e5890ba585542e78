package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dailystatus/internal/db"
	"github.com/dailystatus/internal/form"
)

// ErrInvalidRecord 日报未通过服务端校验，具体字段见 *form.ValidationError
var ErrInvalidRecord = errors.New("invalid daily status record")

// StatusService 负责日报的服务端校验与落库
type StatusService struct {
	db        *gorm.DB
	logger    *zap.Logger
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

// StatusFilter 查询/导出条件，零值表示不限制
type StatusFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

// NewStatusService 构造 StatusService
func NewStatusService(gdb *gorm.DB, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{
		db:        gdb,
		logger:    logger,
		validate:  newRecordValidator(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// 不允许出现标记的自由文本字段
var freeTextFields = []form.Field{
	form.FieldFullName,
	form.FieldOtherRole,
	form.FieldOtherDepartment,
	form.FieldWorkStatusReason,
	form.FieldShortHoursReason,
	form.FieldProjectManagerName,
	form.FieldProjectNames,
	form.FieldOtherTaskType,
	form.FieldTaskSummary,
	form.FieldIssueDescription,
}

// Normalize 去除首尾空白、丢弃未选 Other 时的补充说明、重算派生字段并执行必填与格式校验。
// 自由文本含有标记时判为非法字段，不做改写。
// 校验失败时返回的错误同时满足 errors.Is(err, ErrInvalidRecord) 与 errors.As(*form.ValidationError)。
func (s *StatusService) Normalize(record form.Record) (form.Record, error) {
	snap := form.Snapshot{Record: record}
	markup := make(map[form.Field]string)
	for _, f := range form.Fields {
		if f == form.FieldActiveProjectsCount {
			continue
		}
		value := strings.TrimSpace(record.Value(f))
		if parent, ok := form.OverrideParent(f); ok && strings.TrimSpace(record.Value(parent)) != form.OptionOther {
			value = ""
		}
		if isFreeText(f) && s.containsMarkup(value) {
			// 不静默改写用户提交的文本，直接拒绝
			markup[f] = "must not contain markup such as <tags>"
			continue
		}
		if f == form.FieldHoursWorked || f == form.FieldOvertimeHours {
			// 工时单独处理，避免覆盖客户端手动填写的加班时长
			continue
		}
		next, err := form.Apply(snap, f, value)
		if err != nil {
			return record, &invalidRecordError{form.ValidationError{Invalid: map[form.Field]string{f: err.Error()}}}
		}
		snap = next
	}

	normalized := snap.Record
	normalized.HoursWorked = strings.TrimSpace(record.HoursWorked)
	normalized.OvertimeHours = strings.TrimSpace(record.OvertimeHours)
	if normalized.OvertimeHours == "" {
		derived, _ := form.Apply(form.Snapshot{Record: normalized}, form.FieldHoursWorked, normalized.HoursWorked)
		normalized.OvertimeHours = derived.Record.OvertimeHours
	}

	verr := form.ValidationError{Missing: form.MissingFields(normalized)}
	if err := s.validate.Struct(normalized); err != nil {
		verr.Invalid = invalidFields(err)
		if verr.Invalid == nil {
			return record, fmt.Errorf("validate record: %w", err)
		}
	}
	for f, reason := range markup {
		if verr.Invalid == nil {
			verr.Invalid = make(map[form.Field]string, len(markup))
		}
		verr.Invalid[f] = reason
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return record, &invalidRecordError{verr}
	}
	return normalized, nil
}

// Submit 校验并写入一条日报
func (s *StatusService) Submit(ctx context.Context, record form.Record) (*db.DailyStatus, error) {
	normalized, err := s.Normalize(record)
	if err != nil {
		return nil, err
	}

	status, err := toModel(normalized)
	if err != nil {
		return nil, &invalidRecordError{form.ValidationError{Invalid: map[form.Field]string{form.FieldWorkDate: err.Error()}}}
	}

	if err := s.db.WithContext(ctx).Create(&status).Error; err != nil {
		s.logger.Error("insert daily status failed",
			zap.String("employee_id", status.EmployeeID),
			zap.String("work_date", normalized.WorkDate),
			zap.Error(err),
		)
		return nil, fmt.Errorf("insert daily status: %w", err)
	}

	s.logger.Info("daily status saved",
		zap.Uint("id", status.ID),
		zap.String("employee_id", status.EmployeeID),
		zap.String("work_date", normalized.WorkDate),
	)
	return &status, nil
}

// List 按条件返回日报，按工作日期与主键升序
func (s *StatusService) List(ctx context.Context, filter StatusFilter) ([]db.DailyStatus, error) {
	query := s.db.WithContext(ctx).Model(&db.DailyStatus{})

	if id := strings.TrimSpace(filter.EmployeeID); id != "" {
		query = query.Where(clause.Eq{Column: clause.Column{Name: "Employee_Id"}, Value: id})
	}
	if !filter.From.IsZero() {
		query = query.Where(clause.Gte{Column: clause.Column{Name: "Work_Date"}, Value: dateOnly(filter.From)})
	}
	if !filter.To.IsZero() {
		query = query.Where(clause.Lte{Column: clause.Column{Name: "Work_Date"}, Value: dateOnly(filter.To)})
	}

	var statuses []db.DailyStatus
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "Work_Date"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "Id"}}).
		Find(&statuses).Error
	if err != nil {
		return nil, fmt.Errorf("list daily status: %w", err)
	}
	return statuses, nil
}

type invalidRecordError struct {
	form.ValidationError
}

func (e *invalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}

func (e *invalidRecordError) As(target interface{}) bool {
	if verr, ok := target.(**form.ValidationError); ok {
		*verr = &e.ValidationError
		return true
	}
	return false
}

// containsMarkup 严格策略清洗后文本发生变化即视为含有标记
func (s *StatusService) containsMarkup(value string) bool {
	if value == "" {
		return false
	}
	return html.UnescapeString(s.sanitizer.Sanitize(value)) != value
}

func isFreeText(f form.Field) bool {
	for _, candidate := range freeTextFields {
		if candidate == f {
			return true
		}
	}
	return false
}

func toModel(r form.Record) (db.DailyStatus, error) {
	workDate, err := time.Parse(form.DateLayout, r.WorkDate)
	if err != nil {
		return db.DailyStatus{}, fmt.Errorf("parse work date: %w", err)
	}
	hours, _ := form.ParseHours(r.HoursWorked)
	overtime, _ := form.ParseHours(r.OvertimeHours)

	return db.DailyStatus{
		EmployeeID:                 r.EmployeeID,
		FullName:                   r.FullName,
		DesignationRole:            r.Role,
		OtherDesignationRole:       nullable(r.OtherRole),
		Department:                 r.Department,
		OtherDepartment:            nullable(r.OtherDepartment),
		EmploymentType:             r.EmploymentType,
		ShiftType:                  r.ShiftType,
		WorkDate:                   workDate,
		WorkStatus:                 r.WorkStatus,
		WorkStatusReason:           nullable(r.WorkStatusReason),
		HoursWorked:                hours,
		OvertimeHours:              overtime,
		ShortHoursReason:           nullable(r.ShortHoursReason),
		LeaveType:                  r.LeaveType,
		ActiveProjectsCount:        int(r.ActiveProjectsCount),
		ProjectManagerName:         r.ProjectManagerName,
		ProjectNames:               r.ProjectNames,
		TaskType:                   r.TaskType,
		OtherTaskType:              nullable(r.OtherTaskType),
		TaskSummary:                r.TaskSummary,
		HasBlockers:                r.HasBlockers,
		IssueDependencyDescription: nullable(r.IssueDescription),
	}, nil
}

// ToRecord 将已存储的日报还原为接口记录
func ToRecord(s db.DailyStatus) form.Record {
	return form.Record{
		EmployeeID:          s.EmployeeID,
		FullName:            s.FullName,
		Role:                s.DesignationRole,
		OtherRole:           deref(s.OtherDesignationRole),
		Department:          s.Department,
		OtherDepartment:     deref(s.OtherDepartment),
		EmploymentType:      s.EmploymentType,
		ShiftType:           s.ShiftType,
		WorkDate:            s.WorkDate.Format(form.DateLayout),
		WorkStatus:          s.WorkStatus,
		WorkStatusReason:    deref(s.WorkStatusReason),
		HoursWorked:         strconv.FormatFloat(s.HoursWorked, 'f', -1, 64),
		OvertimeHours:       formatOvertime(s.OvertimeHours),
		ShortHoursReason:    deref(s.ShortHoursReason),
		LeaveType:           s.LeaveType,
		ActiveProjectsCount: form.Count(s.ActiveProjectsCount),
		ProjectManagerName:  s.ProjectManagerName,
		ProjectNames:        s.ProjectNames,
		TaskType:            s.TaskType,
		OtherTaskType:       deref(s.OtherTaskType),
		TaskSummary:         s.TaskSummary,
		HasBlockers:         s.HasBlockers,
		IssueDescription:    deref(s.IssueDependencyDescription),
	}
}

func formatOvertime(hours float64) string {
	if hours <= 0 {
		return "0"
	}
	return form.FormatHours(hours)
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
