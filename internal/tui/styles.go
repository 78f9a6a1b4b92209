package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#5B8DEF")
	muted  = lipgloss.Color("#888888")
	border = lipgloss.Color("#444444")
	alert  = lipgloss.Color("#FF6B6B")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(alert).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)

	boxTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	labelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(lipgloss.Color("#AAAAAA"))

	fieldStyle = lipgloss.NewStyle()

	focusedFieldStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accent)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(border)

	focusedButtonStyle = buttonStyle.
				Bold(true).
				BorderForeground(accent).
				Foreground(accent)

	calendarTitleStyle    = lipgloss.NewStyle().Bold(true)
	calendarHeadStyle     = lipgloss.NewStyle().Foreground(muted)
	calendarSelectedStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	calendarTodayStyle    = lipgloss.NewStyle().Underline(true)

	hintStyle = lipgloss.NewStyle().Foreground(muted)

	journalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 3)

	errorDialogStyle = dialogStyle.
				BorderForeground(alert)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(border).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(accent).
		Bold(false)
	return s
}

// blurredTableStyles hides the cursor row so the list shows no selection
// while the form has focus.
func blurredTableStyles() table.Styles {
	s := tableStyles()
	s.Selected = lipgloss.NewStyle()
	return s
}
