package form

import (
	"errors"
	"strings"
	"time"
)

// ErrFinalized 记录提交后不再接受编辑
var ErrFinalized = errors.New("record already submitted")

// Snapshot 是某一时刻正在填写的日报，加上仅用于界面的派生状态。
// 快照按值传递，每次编辑得到一个新快照。
type Snapshot struct {
	Record       Record
	OvertimeAuto bool
	WordCount    int
}

// Edit 描述一次字段编辑事件
type Edit struct {
	Field Field
	Value string
}

// NewSnapshot 返回带默认选项的空白日报，工作日期取 today。
func NewSnapshot(today time.Time) Snapshot {
	return Snapshot{
		Record: Record{
			EmploymentType: EmploymentTypeOptions[0],
			ShiftType:      ShiftOptions[0],
			WorkDate:       today.Format(DateLayout),
			WorkStatus:     StatusOnTrack,
			LeaveType:      LeaveNone,
			TaskType:       TaskTypeOptions[0],
			OvertimeHours:  "0",
			HasBlockers:    BlockersNo,
		},
	}
}

// ShortHoursReasonVisible 是否展示“工时不足原因”输入框。
func (s Snapshot) ShortHoursReasonVisible() bool {
	return ShortHoursReasonRequired(s.Record)
}

// Apply 合并一次编辑并应用派生规则，返回新快照。
// 编辑被拒绝时原样返回 prev 与错误。
func Apply(prev Snapshot, field Field, value string) (Snapshot, error) {
	update, err := Derive(prev, field, value)
	if err != nil {
		return prev, err
	}
	return merge(prev, update), nil
}

func merge(prev Snapshot, update Update) Snapshot {
	next := prev
	// Derive 已校验字段名，这里不会失败
	_ = next.Record.set(update.Field, update.Value)

	if update.OvertimeHours != nil {
		next.Record.OvertimeHours = *update.OvertimeHours
	}
	if update.OvertimeAuto != nil {
		next.OvertimeAuto = *update.OvertimeAuto
	}
	if update.ProjectCount != nil {
		next.Record.ActiveProjectsCount = *update.ProjectCount
	}
	if update.WordCount != nil {
		next.WordCount = *update.WordCount
	}
	if update.ClearOverride != "" {
		_ = next.Record.set(update.ClearOverride, "")
	}
	return next
}

// Replay 依次应用编辑序列，被拒绝的编辑跳过并收集其错误。
func Replay(start Snapshot, edits ...Edit) (Snapshot, []error) {
	current := start
	var errs []error
	for _, e := range edits {
		next, err := Apply(current, e.Field, e.Value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		current = next
	}
	return current, errs
}

// Session 持有一次填写会话的当前快照。
// 会话由单一编辑者驱动，不做并发保护。
type Session struct {
	current        Snapshot
	finalized      bool
	lookupMinLen   int
	pendingLookups int
}

// NewSession 从初始快照创建会话；lookupMinLen<=0 时使用默认阈值。
func NewSession(initial Snapshot, lookupMinLen int) *Session {
	if lookupMinLen <= 0 {
		lookupMinLen = DefaultLookupMinLength
	}
	return &Session{current: initial, lookupMinLen: lookupMinLen}
}

// Snapshot 返回当前快照
func (s *Session) Snapshot() Snapshot {
	return s.current
}

// Finalized 是否已提交
func (s *Session) Finalized() bool {
	return s.finalized
}

// Edit 应用一次编辑；若编辑的是员工编号且长度足够，返回需要发起的查询。
func (s *Session) Edit(field Field, value string) (*LookupRequest, error) {
	if s.finalized {
		return nil, ErrFinalized
	}
	next, err := Apply(s.current, field, value)
	if err != nil {
		return nil, err
	}
	s.current = next

	if field != FieldEmployeeID || !ShouldLookup(value, s.lookupMinLen) {
		return nil, nil
	}
	s.pendingLookups++
	return &LookupRequest{EmployeeID: strings.TrimSpace(value)}, nil
}

// ResolveLookup 应用查询结果；结果对应的编号已不是当前编号时丢弃并返回 false。
func (s *Session) ResolveLookup(result LookupResult) bool {
	if s.pendingLookups > 0 {
		s.pendingLookups--
	}
	if s.finalized {
		return false
	}
	next, applied := ApplyLookup(s.current, result)
	if applied {
		s.current = next
	}
	return applied
}

// CancelLookup 查询未命中或失败时调用，只减少待返回计数
func (s *Session) CancelLookup() {
	if s.pendingLookups > 0 {
		s.pendingLookups--
	}
}

// LookupPending 是否还有未返回的员工查询
func (s *Session) LookupPending() bool {
	return s.pendingLookups > 0
}

// Validate 对当前快照执行提交前校验
func (s *Session) Validate() error {
	return Validate(s.current.Record)
}

// Finalize 在提交成功后冻结记录并返回最终内容。
func (s *Session) Finalize() (Record, error) {
	if s.finalized {
		return s.current.Record, ErrFinalized
	}
	if err := s.Validate(); err != nil {
		return Record{}, err
	}
	s.finalized = true
	return s.current.Record, nil
}

// Reset 丢弃当前内容并以新快照重新开始
func (s *Session) Reset(initial Snapshot) {
	s.current = initial
	s.finalized = false
	s.pendingLookups = 0
}
