package tui

import (
	"fmt"
	"strings"

	"github.com/dailystatus/internal/form"
)

// View renders the form
func (m Model) View() string {
	var s strings.Builder

	if m.confirmation != nil {
		s.WriteString(m.renderConfirmation())
	} else {
		s.WriteString(headerStyle.Render("Employee Daily Status"))
		s.WriteString("\n\n")
		s.WriteString(m.renderFields())
		s.WriteString("\n")
		s.WriteString(m.renderStatus())
	}

	s.WriteString("\n")
	s.WriteString(m.renderHelp())
	return s.String()
}

func (m Model) renderFields() string {
	snap := m.session.Snapshot()
	missing := make(map[form.Field]bool, len(m.missing))
	for _, f := range m.missing {
		missing[f] = true
	}

	var s strings.Builder
	for _, f := range m.visibleFields() {
		cursor := "  "
		label := labelStyle
		if f == m.focus {
			cursor = "> "
			label = focusedLabelStyle
		}

		name := f.Label()
		if form.IsRequired(snap.Record, f) {
			name += requiredStyle.Render(" *")
		}

		line := cursor + label.Render(name) + m.renderValue(snap, f)
		if missing[f] {
			line += " " + errorStyle.Render("required")
		}
		s.WriteString(line)
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderValue(snap form.Snapshot, f form.Field) string {
	value := snap.Record.Value(f)

	switch {
	case f == m.focus && form.Options(f) != nil:
		return fmt.Sprintf("‹ %s ›", value)
	case f == m.focus:
		value = m.input.View()
	}

	switch f {
	case form.FieldActiveProjectsCount:
		return value + mutedStyle.Render(" (from project names)")
	case form.FieldOvertimeHours:
		if snap.OvertimeAuto {
			return value + " " + badgeStyle.Render("AUTO-CALCULATED")
		}
	case form.FieldTaskSummary:
		return value + mutedStyle.Render(fmt.Sprintf(" %d/%d", snap.WordCount, form.TaskSummaryCap))
	}
	return value
}

func (m Model) renderStatus() string {
	switch {
	case m.submitErr != nil:
		return errorStyle.Render("Submission failed: "+m.submitErr.Error()) + "\n"
	case m.notice != "":
		return mutedStyle.Render(m.notice) + "\n"
	}
	return ""
}

func (m Model) renderConfirmation() string {
	c := m.confirmation
	var s strings.Builder

	s.WriteString(headerStyle.Render("Daily Status Submitted"))
	s.WriteString("\n\n")
	s.WriteString(successStyle.Render("Log ID: " + c.LogID))
	s.WriteString("\n")
	if c.Message != "" {
		s.WriteString(c.Message)
		s.WriteString("\n")
	}
	if !c.SubmittedAt.IsZero() {
		s.WriteString(mutedStyle.Render(c.SubmittedAt.Format("2006-01-02 15:04")))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(titleStyle.Render("Submitted record"))
	s.WriteString("\n")

	for _, f := range form.Fields {
		value := c.Record.Value(f)
		if strings.TrimSpace(value) == "" {
			continue
		}
		s.WriteString(fmt.Sprintf("%s%s\n", labelStyle.Render(f.Label()), value))
	}
	return s.String()
}

func (m Model) renderHelp() string {
	if m.confirmation != nil {
		return helpStyle.Render("[ctrl+n] New report  [esc] Quit")
	}
	return helpStyle.Render("[↑/↓] Field  [←/→] Option  [ctrl+s] Submit  [esc] Quit")
}
