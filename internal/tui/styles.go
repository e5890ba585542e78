package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dailystatus/internal/form"
)

// labelWidth 容纳最长字段名、必填星号以及两格间距，避免标签折行
var labelWidth = func() int {
	width := 0
	for _, f := range form.Fields {
		if w := lipgloss.Width(f.Label()); w > width {
			width = w
		}
	}
	return width + lipgloss.Width(" *") + 2
}()

var (
	primaryColor   = lipgloss.Color("62")  // Purple
	secondaryColor = lipgloss.Color("241") // Gray
	successColor   = lipgloss.Color("42")  // Green
	warningColor   = lipgloss.Color("214") // Orange
	errorColor     = lipgloss.Color("196") // Red

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(secondaryColor)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Width(labelWidth)

	focusedLabelStyle = labelStyle.
				Bold(true).
				Foreground(lipgloss.Color("229"))

	requiredStyle = lipgloss.NewStyle().Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().Foreground(secondaryColor)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(warningColor).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)

	errorStyle = lipgloss.NewStyle().Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().Foreground(secondaryColor)
)
