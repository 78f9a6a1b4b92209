// internal/task/task.go
//
// Task is the single record the to-do list manages. On disk every task is
// one line of four fields joined by "|":
//
//	text|priority|due_date|status
//
// The separator is not escaped. Text that contains "|" produces a line
// with more than four fields, which Decode rejects on the next load.

package task

import (
	"strings"
	"time"
)

// Separator joins the persisted fields of a task.
const Separator = "|"

// DateLayout is the persisted and displayed format of due dates.
const DateLayout = "2006-01-02"

const fieldCount = 4

// Priority ranks a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities returns the selectable priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority matches a priority name case-insensitively.
func ParsePriority(value string) (Priority, bool) {
	value = strings.TrimSpace(value)
	for _, p := range Priorities() {
		if strings.EqualFold(string(p), value) {
			return p, true
		}
	}
	return "", false
}

// Next returns the priority after p, wrapping around.
func (p Priority) Next() Priority {
	return p.shift(1)
}

// Prev returns the priority before p, wrapping around.
func (p Priority) Prev() Priority {
	return p.shift(-1)
}

func (p Priority) shift(delta int) Priority {
	all := Priorities()
	idx := 0
	for i, candidate := range all {
		if candidate == p {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(all)) % len(all)
	return all[idx]
}

func (p Priority) String() string { return string(p) }

// Status tracks whether a task is done.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

func (s Status) String() string { return string(s) }

// Task is one entry of the list. ID is an in-memory surrogate key and is
// never persisted.
type Task struct {
	ID       string
	Text     string
	Priority Priority
	DueDate  string
	Status   Status
}

// Completed reports whether the task has been marked complete.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Due parses the due date. Dates loaded from a hand-edited file may not
// parse; ok is false then.
func (t Task) Due() (time.Time, bool) {
	due, err := time.ParseInLocation(DateLayout, strings.TrimSpace(t.DueDate), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// Overdue reports whether a pending task's due date lies before today.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed() {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// FormatDate renders a calendar date in DateLayout.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// Encode renders the task as one persisted line without the trailing newline.
func Encode(t Task) string {
	return strings.Join([]string{
		t.Text,
		string(t.Priority),
		t.DueDate,
		string(t.Status),
	}, Separator)
}

// Decode parses one persisted line. Lines that do not split into exactly
// four fields are rejected. Field values are taken as written.
func Decode(line string) (Task, bool) {
	fields := strings.Split(strings.TrimSpace(line), Separator)
	if len(fields) != fieldCount {
		return Task{}, false
	}
	return Task{
		Text:     fields[0],
		Priority: Priority(fields[1]),
		DueDate:  fields[2],
		Status:   Status(fields[3]),
	}, true
}
