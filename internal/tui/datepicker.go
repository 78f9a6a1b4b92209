package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/todo/internal/task"
)

// datePicker is a month calendar bound to a single selected day.
type datePicker struct {
	date  time.Time
	today func() time.Time
	keys  KeyMap
}

func newDatePicker(today func() time.Time, keys KeyMap) datePicker {
	return datePicker{
		date:  midnight(today()),
		today: today,
		keys:  keys,
	}
}

// Date returns the selected day at local midnight.
func (p datePicker) Date() time.Time {
	return p.date
}

// Value renders the selected day the way it is persisted.
func (p datePicker) Value() string {
	return task.FormatDate(p.date)
}

// Update moves the selection. It reports whether the key was consumed.
func (p datePicker) Update(msg tea.KeyMsg) (datePicker, bool) {
	switch {
	case key.Matches(msg, p.keys.Left):
		p.date = p.date.AddDate(0, 0, -1)
	case key.Matches(msg, p.keys.Right):
		p.date = p.date.AddDate(0, 0, 1)
	case key.Matches(msg, p.keys.Up):
		p.date = p.date.AddDate(0, 0, -7)
	case key.Matches(msg, p.keys.Down):
		p.date = p.date.AddDate(0, 0, 7)
	case key.Matches(msg, p.keys.PrevMonth):
		p.date = addMonths(p.date, -1)
	case key.Matches(msg, p.keys.NextMonth):
		p.date = addMonths(p.date, 1)
	case key.Matches(msg, p.keys.Today):
		p.date = midnight(p.today())
	default:
		return p, false
	}
	return p, true
}

// View renders the compact field value.
func (p datePicker) View(focused bool) string {
	label := fmt.Sprintf("%s %s", p.Value(), p.date.Format("Mon"))
	if focused {
		return focusedFieldStyle.Render(label)
	}
	return fieldStyle.Render(label)
}

// Calendar renders the month grid of the selected day, Monday first.
func (p datePicker) Calendar() string {
	year, month, _ := p.date.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, p.date.Location())
	today := midnight(p.today())

	var b strings.Builder
	b.WriteString(calendarTitleStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")
	b.WriteString(calendarHeadStyle.Render("Mo Tu We Th Fr Sa Su"))
	b.WriteString("\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))
	col := offset
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%2d", d.Day())
		switch {
		case d.Equal(p.date):
			cell = calendarSelectedStyle.Render(cell)
		case d.Equal(today):
			cell = calendarTodayStyle.Render(cell)
		}
		b.WriteString(cell)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.TrimRight(b.String(), " \n"))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// addMonths shifts by whole months, clamping the day to the target
// month's length so Jan 31 + 1 month lands on the last day of February.
func addMonths(t time.Time, delta int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(delta), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}
