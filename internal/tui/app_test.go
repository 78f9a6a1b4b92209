package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/todo/internal/logbook"
	"github.com/kingrea/todo/internal/store"
	"github.com/kingrea/todo/internal/task"
)

var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyLeft     = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyPgDown   = tea.KeyMsg{Type: tea.KeyPgDown}
	keyCtrlC    = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, path string, opts ...AppOption) *App {
	t.Helper()
	opts = append([]AppOption{WithClock(func() time.Time { return testNow })}, opts...)
	return NewApp(store.New(path), opts...)
}

func press(t *testing.T, app *App, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, msg := range msgs {
		model, _ := app.Update(msg)
		if model != app {
			t.Fatalf("expected the same app model, got %T", model)
		}
	}
}

func writeTasks(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tasks: %v", err)
	}
}

func readTasks(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read tasks: %v", err)
	}
	return string(data)
}

func assertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no write to %s, stat err = %v", path, err)
	}
}

func TestAddTaskFromForm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.txt")
	journal, err := logbook.New(filepath.Join(dir, "logs", "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, path, WithLogbook(journal))

	press(t, app, runes("Buy milk"), keyTab, keyLeft, keyEnter)

	tasks := app.store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Text != "Buy milk" || got.Priority != task.PriorityHigh || got.DueDate != "2024-01-01" || got.Status != task.StatusPending {
		t.Fatalf("unexpected task %+v", got)
	}
	if content := readTasks(t, path); content != "Buy milk|High|2024-01-01|Pending\n" {
		t.Fatalf("file content = %q", content)
	}
	if app.input.Value() != "" {
		t.Fatalf("text field should be cleared, got %q", app.input.Value())
	}
	if app.priority != task.PriorityHigh {
		t.Fatalf("priority should stay selected, got %s", app.priority)
	}
	if lines, _ := journal.Tail(1); len(lines) != 1 || !strings.Contains(lines[0], `Added "Buy milk"`) {
		t.Fatalf("journal tail = %v", lines)
	}
	view := app.View()
	for _, want := range []string{"Task", "Priority", "Due Date", "Status", "Buy milk", "Pending"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestAddBlankTextIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	app := newTestApp(t, path)
	press(t, app, runes("   "), keyEnter)
	if app.store.Len() != 0 {
		t.Fatalf("blank text must not add, got %d tasks", app.store.Len())
	}
	assertNoFile(t, path)
}

func TestDefaultPriorityOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	app := newTestApp(t, path, WithDefaultPriority(task.PriorityLow))
	press(t, app, runes("later"), keyEnter)
	if content := readTasks(t, path); content != "later|Low|2024-01-01|Pending\n" {
		t.Fatalf("file content = %q", content)
	}
}

func TestDatePickerSetsDueDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	app := newTestApp(t, path)
	press(t, app, runes("dentist"), keyTab, keyTab)
	if app.focus != focusDate {
		t.Fatalf("expected date focus, got %d", app.focus)
	}
	press(t, app, keyRight, keyPgDown)
	if got := app.picker.Value(); got != "2024-02-02" {
		t.Fatalf("picker = %s, want 2024-02-02", got)
	}
	if !strings.Contains(app.View(), "February 2024") {
		t.Fatalf("calendar should be visible while the date field is focused")
	}
	press(t, app, keyEnter)
	if content := readTasks(t, path); content != "dentist|Medium|2024-02-02|Pending\n" {
		t.Fatalf("file content = %q", content)
	}
}

func TestLoadDropsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.txt")
	writeTasks(t, path, "Buy milk|High|2024-01-01|Pending\nonly|two\n")
	journal, err := logbook.New(filepath.Join(dir, "logs", "journal.log"))
	if err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, path, WithLogbook(journal))
	if app.dialog != nil {
		t.Fatalf("malformed lines must not raise a dialog")
	}
	tasks := app.store.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	lines, _ := journal.Tail(1)
	if len(lines) != 1 || !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[0], "Skipped 1 malformed line(s) in tasks.txt") {
		t.Fatalf("journal tail = %v", lines)
	}
	if !strings.Contains(app.View(), "Recent activity · journal.log") {
		t.Fatalf("activity panel should name the journal file")
	}
}

func TestLoadInvalidUTF8ShowsErrorDialog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeTasks(t, path, "Buy \xff\xfe milk|High|2024-01-01|Pending\n")
	app := newTestApp(t, path)
	if app.dialog == nil || app.dialog.message != loadFailedMessage {
		t.Fatalf("expected load error dialog, got %+v", app.dialog)
	}
	if app.store.Len() != 0 {
		t.Fatalf("store should stay empty, got %+v", app.store.Tasks())
	}
}

func TestAddKeepsLongTextIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	app := newTestApp(t, path)
	long := strings.Repeat("a", 300)
	press(t, app, runes(long), keyEnter)
	tasks := app.store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Text != long {
		t.Fatalf("stored text length = %d, want %d", len(tasks[0].Text), len(long))
	}
	if content := readTasks(t, path); content != long+"|Medium|2024-01-01|Pending\n" {
		t.Fatalf("persisted line length = %d", len(content))
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeTasks(t, path, "a|High|2024-01-01|Pending\nb|Low|2024-01-02|Pending\n")
	app := newTestApp(t, path)

	if id := app.selectedID(); id != "" {
		t.Fatalf("nothing is selected while the form has focus, got %q", id)
	}
	press(t, app, keyShiftTab)
	if app.focus != focusList {
		t.Fatalf("shift+tab from the text field should focus the list, got %d", app.focus)
	}
	press(t, app, keyDown, runes("d"))
	if app.dialog == nil || app.dialog.kind != dialogConfirmDelete {
		t.Fatalf("expected delete confirmation")
	}
	if !strings.Contains(app.View(), "Delete selected task?") {
		t.Fatalf("dialog text missing from view")
	}

	press(t, app, runes("n"))
	if app.dialog != nil || app.store.Len() != 2 {
		t.Fatalf("declining must keep both tasks")
	}

	press(t, app, runes("d"), runes("y"))
	tasks := app.store.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "a" {
		t.Fatalf("expected only task a to remain, got %+v", tasks)
	}
	if content := readTasks(t, path); content != "a|High|2024-01-01|Pending\n" {
		t.Fatalf("file content = %q", content)
	}
}

func TestMarkCompleteTwiceStaysCompleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeTasks(t, path, "report|High|2024-01-05|Pending\n")
	app := newTestApp(t, path)
	press(t, app, keyShiftTab, runes("c"), runes("c"))
	if app.dialog != nil {
		t.Fatalf("mark complete does not confirm")
	}
	if content := readTasks(t, path); content != "report|High|2024-01-05|Completed\n" {
		t.Fatalf("file content = %q", content)
	}
	if !strings.Contains(app.View(), "Completed") {
		t.Fatalf("status column should show Completed")
	}
}

func TestListActionsWithoutSelectionDoNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	app := newTestApp(t, path)
	press(t, app, keyShiftTab, keyDown, runes("d"), runes("c"))
	if app.dialog != nil {
		t.Fatalf("no dialog expected without a selection")
	}
	assertNoFile(t, path)
}

func TestClearAllAsksEvenWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	app := newTestApp(t, path)
	press(t, app, keyShiftTab, runes("x"))
	if app.dialog == nil || app.dialog.kind != dialogConfirmClear {
		t.Fatalf("expected clear confirmation on an empty list")
	}
	press(t, app, keyEsc)
	assertNoFile(t, path)

	writeTasks(t, path, "a|High|2024-01-01|Pending\nb|Low|2024-01-02|Completed\n")
	app = newTestApp(t, path)
	press(t, app, keyShiftTab, runes("x"), keyEnter)
	if app.store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", app.store.Len())
	}
	if content := readTasks(t, path); content != "" {
		t.Fatalf("file content = %q, want empty", content)
	}
}

func TestLoadFailureShowsErrorDialog(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, dir)
	if app.dialog == nil || app.dialog.kind != dialogError || app.dialog.message != loadFailedMessage {
		t.Fatalf("expected load error dialog, got %+v", app.dialog)
	}
	if !strings.Contains(app.View(), "Could not load tasks") {
		t.Fatalf("error text missing from view")
	}
	press(t, app, runes("typed while blocked"))
	if app.input.Value() != "" {
		t.Fatalf("input must be blocked while the dialog is open")
	}
	press(t, app, keyEnter)
	if app.dialog != nil {
		t.Fatalf("enter should dismiss the error dialog")
	}
	if app.store.Len() != 0 {
		t.Fatalf("store should stay empty after a load failure")
	}
}

func TestSaveFailureKeepsRowAndShowsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "tasks.txt")
	app := newTestApp(t, path)
	if app.dialog != nil {
		t.Fatalf("missing file is not a load failure")
	}
	press(t, app, runes("unsaved"), keyEnter)
	if app.dialog == nil || app.dialog.message != saveFailedMessage {
		t.Fatalf("expected save error dialog, got %+v", app.dialog)
	}
	if app.store.Len() != 1 {
		t.Fatalf("in-memory task must survive a failed save")
	}
	press(t, app, keyEsc)
	if !strings.Contains(app.View(), "unsaved") {
		t.Fatalf("row should still be listed")
	}
}

func TestEscReturnsToFormAndQuitKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	app := newTestApp(t, path)
	press(t, app, keyShiftTab, keyEsc)
	if app.focus != focusText {
		t.Fatalf("esc should return to the text field, got %d", app.focus)
	}
	_, cmd := app.Update(keyCtrlC)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatalf("expected quit message")
	} else if _, ok := msg.(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestWindowResizeKeepsRendering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	writeTasks(t, path, "a fairly long task description|Medium|2023-12-01|Pending\n")
	app := newTestApp(t, path)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := app.View()
	if !strings.Contains(view, "1 overdue") {
		t.Fatalf("status line should count the overdue task: %q", view)
	}
}
