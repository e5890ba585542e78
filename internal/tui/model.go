package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dailystatus/internal/client"
	"github.com/dailystatus/internal/form"
)

// Backend 是终端表单依赖的后端能力，*client.Client 满足该接口。
type Backend interface {
	LookupEmployee(ctx context.Context, employeeID string) (form.LookupResult, bool, error)
	Submit(ctx context.Context, record form.Record) (*client.Confirmation, error)
}

// Options 终端表单的可选配置
type Options struct {
	LookupMinLength int
	Timeout         time.Duration
	Now             func() time.Time
}

// 仅在条件成立时展示的字段
var conditionalFields = func() map[form.Field]bool {
	fields := make(map[form.Field]bool, len(form.ConditionalRequired))
	for _, req := range form.ConditionalRequired {
		fields[req.Field] = true
	}
	return fields
}()

type lookupMsg struct {
	request form.LookupRequest
	result  form.LookupResult
	found   bool
	err     error
}

type submitMsg struct {
	confirmation *client.Confirmation
	err          error
}

// Model is the daily status form model
type Model struct {
	backend Backend
	session *form.Session
	now     func() time.Time
	timeout time.Duration

	focus form.Field
	input textinput.Model

	missing      []form.Field
	notice       string
	submitErr    error
	submitting   bool
	confirmation *client.Confirmation

	width  int
	height int
}

// New creates a form model with today's defaults
func New(backend Backend, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = client.DefaultTimeout
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 0

	m := Model{
		backend: backend,
		session: form.NewSession(form.NewSnapshot(opts.Now()), opts.LookupMinLength),
		now:     opts.Now,
		timeout: opts.Timeout,
		input:   input,
	}
	m.focusField(form.FieldEmployeeID)
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Snapshot 返回当前表单内容
func (m Model) Snapshot() form.Snapshot {
	return m.session.Snapshot()
}

// Focus 返回当前聚焦的字段
func (m Model) Focus() form.Field {
	return m.focus
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case lookupMsg:
		m.resolveLookup(msg)
		return m, nil

	case submitMsg:
		m.finishSubmit(msg)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.session.Finalized() {
			if key.Matches(msg, keys.New) {
				m.reset()
				return m, textinput.Blink
			}
			return m, nil
		}
		if m.submitting {
			return m, nil
		}

		isOption := form.Options(m.focus) != nil
		switch {
		case key.Matches(msg, keys.Submit):
			return m, m.submit()
		case key.Matches(msg, keys.Up):
			m.move(-1)
			return m, nil
		case key.Matches(msg, keys.Down):
			m.move(1)
			return m, nil
		case isOption && key.Matches(msg, keys.Prev):
			return m, m.cycle(-1)
		case isOption && key.Matches(msg, keys.Next):
			return m, m.cycle(1)
		}
		if isOption {
			return m, nil
		}
		return m, m.updateInput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return cmd
	}
	return tea.Batch(cmd, m.edit(m.focus, m.input.Value()))
}

// edit 把一次编辑交给会话；被拒绝时输入框回退到会话中的值。
func (m *Model) edit(field form.Field, value string) tea.Cmd {
	req, err := m.session.Edit(field, value)
	if err != nil {
		m.notice = editNotice(err)
		m.syncInput()
		return nil
	}

	m.notice = ""
	if len(m.missing) > 0 {
		m.missing = form.MissingFields(m.session.Snapshot().Record)
	}
	m.keepFocusVisible()

	if req == nil {
		return nil
	}
	return m.lookup(*req)
}

func editNotice(err error) string {
	switch {
	case errors.Is(err, form.ErrWordLimitExceeded):
		return "Task summary is limited to 300 words."
	case errors.Is(err, form.ErrDerivedField):
		return "This field is calculated automatically."
	default:
		return err.Error()
	}
}

func (m Model) lookup(req form.LookupRequest) tea.Cmd {
	backend, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		result, found, err := backend.LookupEmployee(ctx, req.EmployeeID)
		return lookupMsg{request: req, result: result, found: found, err: err}
	}
}

// resolveLookup 未命中和失败都不打扰填写者，只丢弃该次查询。
func (m *Model) resolveLookup(msg lookupMsg) {
	if msg.err != nil || !msg.found {
		m.session.CancelLookup()
		return
	}
	result := msg.result
	if result.EmployeeID == "" {
		result.EmployeeID = msg.request.EmployeeID
	}
	if m.session.ResolveLookup(result) {
		m.syncInput()
		m.keepFocusVisible()
	}
}

func (m *Model) submit() tea.Cmd {
	if err := m.session.Validate(); err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			m.missing = verr.Missing
		}
		m.notice = "Please fill all required fields."
		return nil
	}

	m.submitting = true
	m.submitErr = nil
	m.missing = nil
	m.notice = "Submitting..."

	backend, timeout := m.backend, m.timeout
	record := m.session.Snapshot().Record
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		confirmation, err := backend.Submit(ctx, record)
		return submitMsg{confirmation: confirmation, err: err}
	}
}

func (m *Model) finishSubmit(msg submitMsg) {
	m.submitting = false
	m.notice = ""
	if msg.err != nil {
		m.submitErr = msg.err
		var subErr *client.SubmissionError
		if errors.As(msg.err, &subErr) && len(subErr.Missing) > 0 {
			m.missing = subErr.Missing
		}
		return
	}
	if _, err := m.session.Finalize(); err != nil {
		m.submitErr = err
		return
	}
	m.confirmation = msg.confirmation
	m.input.Blur()
}

func (m *Model) reset() {
	m.session.Reset(form.NewSnapshot(m.now()))
	m.confirmation = nil
	m.submitErr = nil
	m.missing = nil
	m.notice = ""
	m.focusField(form.FieldEmployeeID)
}

func (m *Model) cycle(delta int) tea.Cmd {
	options := form.Options(m.focus)
	current := m.session.Snapshot().Record.Value(m.focus)
	idx := -1
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	next := (idx + delta + len(options)) % len(options)
	if idx < 0 && delta < 0 {
		next = len(options) - 1
	}
	return m.edit(m.focus, options[next])
}

// visibleFields 按表单顺序返回当前应展示的字段
func (m Model) visibleFields() []form.Field {
	record := m.session.Snapshot().Record
	fields := make([]form.Field, 0, len(form.Fields))
	for _, f := range form.Fields {
		if conditionalFields[f] && !form.IsRequired(record, f) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func focusable(f form.Field) bool {
	return f != form.FieldActiveProjectsCount
}

func (m *Model) move(delta int) {
	fields := m.visibleFields()
	idx := indexOf(fields, m.focus)
	for i := 1; i <= len(fields); i++ {
		candidate := fields[(idx+delta*i+len(fields)*i)%len(fields)]
		if focusable(candidate) {
			m.focusField(candidate)
			return
		}
	}
}

// keepFocusVisible 聚焦字段因条件变化被隐藏时，退回到前一个可见字段
func (m *Model) keepFocusVisible() {
	fields := m.visibleFields()
	if indexOf(fields, m.focus) >= 0 {
		return
	}
	order := indexOf(form.Fields, m.focus)
	target := form.FieldEmployeeID
	for _, f := range fields {
		if indexOf(form.Fields, f) < order && focusable(f) {
			target = f
		}
	}
	m.focusField(target)
}

func (m *Model) focusField(f form.Field) {
	m.focus = f
	if form.Options(f) != nil {
		m.input.Blur()
		return
	}
	m.input.SetValue(m.session.Snapshot().Record.Value(f))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) syncInput() {
	if form.Options(m.focus) != nil {
		return
	}
	if value := m.session.Snapshot().Record.Value(m.focus); value != m.input.Value() {
		m.input.SetValue(value)
		m.input.CursorEnd()
	}
}

func indexOf(fields []form.Field, f form.Field) int {
	for i, candidate := range fields {
		if candidate == f {
			return i
		}
	}
	return -1
}

// Run starts the form program
func Run(backend Backend, opts Options) error {
	p := tea.NewProgram(New(backend, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
