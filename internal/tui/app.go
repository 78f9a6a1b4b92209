// internal/tui/app.go
//
// This is the terminal UI of the to-do list. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: the App below, holding the task store and widget state
// 2. Update: a function that updates state based on messages
// 3. View: a function that renders state to a string
//
// The App never keeps its own copy of the tasks. Every mutation goes
// through the store, which rewrites tasks.txt, and the table rows are
// rebuilt from the store afterwards.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/todo/internal/logbook"
	"github.com/kingrea/todo/internal/logging"
	"github.com/kingrea/todo/internal/store"
	"github.com/kingrea/todo/internal/task"
)

// focus is the widget receiving key input. Tab walks them in order.
type focus int

const (
	focusText     focus = iota // task text field
	focusPriority              // priority selector
	focusDate                  // due date calendar
	focusButton                // "Add Task"
	focusList                  // task table
	focusCount
)

const (
	loadFailedMessage = "Could not load tasks"
	saveFailedMessage = "Could not save tasks"

	defaultWidth      = 80
	defaultTableRows  = 10
	priorityColWidth  = 8
	dateColWidth      = 10
	statusColWidth    = 9
	minTextColWidth   = 12
	cellPaddingPerCol = 2
)

type dialogKind int

const (
	dialogConfirmDelete dialogKind = iota
	dialogConfirmClear
	dialogError
)

// dialog is a modal prompt. While one is open no other input reaches the
// form or the list.
type dialog struct {
	kind    dialogKind
	title   string
	message string
	detail  string
	taskID  string
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) AppOption {
	return func(a *App) {
		a.log = l
	}
}

// WithLogbook sets the activity journal shown below the list.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithClock overrides the clock used for "today" and overdue checks.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithDefaultPriority sets the initial value of the priority selector.
func WithDefaultPriority(p task.Priority) AppOption {
	return func(a *App) {
		if _, ok := task.ParsePriority(string(p)); ok {
			a.priority = p
		}
	}
}

// WithJournal controls the activity panel.
func WithJournal(show bool, lines int) AppOption {
	return func(a *App) {
		a.showJournal = show
		a.journalLines = max(0, lines)
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	store   *store.Store
	log     *logging.Logger
	logbook *logbook.Logbook
	keys    KeyMap
	now     func() time.Time

	// Form
	focus    focus
	input    textinput.Model
	priority task.Priority
	picker   datePicker

	// List
	table  table.Model
	rowIDs []string

	help      help.Model
	dialog    *dialog
	statusMsg string

	showJournal  bool
	journalLines int

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates the App and loads the store. A load failure opens the
// error dialog; the list starts empty.
func NewApp(st *store.Store, opts ...AppOption) *App {
	app := &App{
		store:        st,
		keys:         DefaultKeyMap(),
		now:          time.Now,
		priority:     task.PriorityMedium,
		showJournal:  true,
		journalLines: 4,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = ""
	input.Width = 40
	input.Focus()
	app.input = input

	app.picker = newDatePicker(app.now, app.keys)
	app.table = table.New(
		table.WithColumns(taskColumns(defaultWidth-4)),
		table.WithHeight(defaultTableRows),
		table.WithStyles(blurredTableStyles()),
	)
	app.help = help.New()

	app.load()
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Interrupt) {
			return a, tea.Quit
		}
		if a.dialog != nil {
			a.handleDialogKey(msg)
			return a, nil
		}
		return a, a.handleKey(msg)
	}

	// Cursor blink and other widget messages.
	if a.focus == focusText {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Next):
		return a.setFocus((a.focus + 1) % focusCount)
	case key.Matches(msg, a.keys.Prev):
		return a.setFocus((a.focus + focusCount - 1) % focusCount)
	}

	switch a.focus {
	case focusText:
		if key.Matches(msg, a.keys.Submit) {
			a.addTask()
			return nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd
	case focusPriority:
		switch {
		case key.Matches(msg, a.keys.Left):
			a.priority = a.priority.Prev()
		case key.Matches(msg, a.keys.Right):
			a.priority = a.priority.Next()
		case key.Matches(msg, a.keys.Submit):
			a.addTask()
		}
	case focusDate:
		if key.Matches(msg, a.keys.Submit) {
			a.addTask()
			return nil
		}
		a.picker, _ = a.picker.Update(msg)
	case focusButton:
		if key.Matches(msg, a.keys.Submit) || msg.String() == " " {
			a.addTask()
		}
	case focusList:
		return a.handleListKey(msg)
	}
	return nil
}

func (a *App) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Delete):
		a.requestDelete()
	case key.Matches(msg, a.keys.Complete):
		a.completeSelected()
	case key.Matches(msg, a.keys.ClearAll):
		a.requestClear()
	case key.Matches(msg, a.keys.Back):
		return a.setFocus(focusText)
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	default:
		if len(a.rowIDs) == 0 {
			return nil
		}
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) handleDialogKey(msg tea.KeyMsg) {
	d := a.dialog
	if d.kind == dialogError {
		if key.Matches(msg, a.keys.Dismiss) {
			a.dialog = nil
		}
		return
	}
	switch {
	case key.Matches(msg, a.keys.Confirm):
		a.dialog = nil
		a.confirm(*d)
	case key.Matches(msg, a.keys.Cancel):
		a.dialog = nil
	}
}

func (a *App) setFocus(f focus) tea.Cmd {
	a.focus = f
	var cmd tea.Cmd
	if f == focusText {
		cmd = a.input.Focus()
	} else {
		a.input.Blur()
	}
	if f == focusList {
		a.table.Focus()
		a.table.SetStyles(tableStyles())
	} else {
		a.table.Blur()
		a.table.SetStyles(blurredTableStyles())
	}
	return cmd
}

// selectedID returns the key of the highlighted task, or "" when the list
// is not focused or empty.
func (a *App) selectedID() string {
	if a.focus != focusList || len(a.rowIDs) == 0 {
		return ""
	}
	idx := a.table.Cursor()
	if idx < 0 || idx >= len(a.rowIDs) {
		return ""
	}
	return a.rowIDs[idx]
}

func (a *App) addTask() {
	t, added, err := a.store.Add(a.input.Value(), a.priority, a.picker.Date())
	if !added {
		return
	}
	a.input.SetValue("")
	a.refreshRows()
	a.log.Debug("task added", "text", t.Text, "priority", t.Priority, "due", t.DueDate)
	a.logbook.Info("Added %q · %s · due %s", t.Text, t.Priority, t.DueDate)
	a.statusMsg = fmt.Sprintf("Added “%s”", t.Text)
	if err != nil {
		a.saveFailed(err)
	}
}

func (a *App) requestDelete() {
	id := a.selectedID()
	if id == "" {
		return
	}
	t, _ := a.store.Get(id)
	a.dialog = &dialog{
		kind:    dialogConfirmDelete,
		title:   "Confirm",
		message: "Delete selected task?",
		detail:  t.Text,
		taskID:  id,
	}
}

func (a *App) completeSelected() {
	id := a.selectedID()
	if id == "" {
		return
	}
	ok, err := a.store.Complete(id)
	if !ok {
		return
	}
	a.refreshRows()
	t, _ := a.store.Get(id)
	a.log.Debug("task completed", "text", t.Text)
	a.logbook.Info("Completed %q", t.Text)
	a.statusMsg = fmt.Sprintf("Completed “%s”", t.Text)
	if err != nil {
		a.saveFailed(err)
	}
}

func (a *App) requestClear() {
	a.dialog = &dialog{
		kind:    dialogConfirmClear,
		title:   "Confirm",
		message: "Clear all tasks?",
	}
}

func (a *App) confirm(d dialog) {
	switch d.kind {
	case dialogConfirmDelete:
		t, _ := a.store.Get(d.taskID)
		ok, err := a.store.Delete(d.taskID)
		if !ok {
			return
		}
		a.refreshRows()
		a.log.Debug("task deleted", "text", t.Text)
		a.logbook.Info("Deleted %q", t.Text)
		a.statusMsg = fmt.Sprintf("Deleted “%s”", t.Text)
		if err != nil {
			a.saveFailed(err)
		}
	case dialogConfirmClear:
		n := a.store.Len()
		err := a.store.ClearAll()
		a.refreshRows()
		a.log.Debug("tasks cleared", "count", n)
		a.logbook.Info("Cleared %d task(s)", n)
		a.statusMsg = "Cleared all tasks"
		if err != nil {
			a.saveFailed(err)
		}
	}
}

func (a *App) load() {
	if err := a.store.Load(); err != nil {
		a.log.Error("load tasks", "path", a.store.Path(), "err", err)
		a.logbook.Error("%s: %v", loadFailedMessage, err)
		a.refreshRows()
		a.showError(loadFailedMessage)
		return
	}
	if n := a.store.Dropped(); n > 0 {
		a.log.Debug("skipped malformed lines", "path", a.store.Path(), "count", n)
		a.logbook.Warn("Skipped %d malformed line(s) in %s", n, filepath.Base(a.store.Path()))
	}
	a.log.Info("tasks loaded", "path", a.store.Path(), "count", a.store.Len())
	a.refreshRows()
}

func (a *App) saveFailed(err error) {
	a.log.Error("save tasks", "path", a.store.Path(), "err", err)
	a.logbook.Error("%s: %v", saveFailedMessage, err)
	a.showError(saveFailedMessage)
}

func (a *App) showError(message string) {
	a.dialog = &dialog{
		kind:    dialogError,
		title:   "Error",
		message: message,
	}
}

// refreshRows rebuilds the table from the store, keeping the cursor in range.
func (a *App) refreshRows() {
	tasks := a.store.Tasks()
	rows := make([]table.Row, len(tasks))
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		rows[i] = table.Row{t.Text, string(t.Priority), t.DueDate, string(t.Status)}
		ids[i] = t.ID
	}
	a.rowIDs = ids
	a.table.SetRows(rows)
	if n := len(rows); n > 0 {
		if c := a.table.Cursor(); c < 0 {
			a.table.SetCursor(0)
		} else if c >= n {
			a.table.SetCursor(n - 1)
		}
	}
}

func (a *App) resize() {
	inner := a.boxWidth() - 4
	a.table.SetColumns(taskColumns(inner))
	a.table.SetWidth(inner)
	a.input.Width = max(20, inner-12)
	a.help.Width = inner

	reserved := 18
	if a.showJournal && a.journalLines > 0 {
		reserved += a.journalLines + 3
	}
	a.table.SetHeight(max(3, a.height-reserved))
}

func (a *App) boxWidth() int {
	width := a.width
	if width <= 0 {
		width = defaultWidth
	}
	return max(44, width-2)
}

func taskColumns(width int) []table.Column {
	fixed := priorityColWidth + dateColWidth + statusColWidth + 4*cellPaddingPerCol
	return []table.Column{
		{Title: "Task", Width: max(minTextColWidth, width-fixed)},
		{Title: "Priority", Width: priorityColWidth},
		{Title: "Due Date", Width: dateColWidth},
		{Title: "Status", Width: statusColWidth},
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	if a.dialog != nil {
		return a.renderDialog()
	}
	sections := []string{
		headerStyle.Render("☑ TO-DO"),
		a.renderForm(),
		a.renderTasks(),
		a.renderControls(),
	}
	if panel := a.renderJournal(); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, hintStyle.Render(a.statusLine()))
	return strings.Join(sections, "\n")
}

func (a *App) renderForm() string {
	priority := fmt.Sprintf("◀ %s ▶", a.priority)
	if a.focus == focusPriority {
		priority = focusedFieldStyle.Render(priority)
	} else {
		priority = fieldStyle.Render(priority)
	}
	taskLine := lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Task:"), a.input.View())
	optionLine := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Priority:"),
		priority,
		"    ",
		labelStyle.Render("Due Date:"),
		a.picker.View(a.focus == focusDate),
	)
	button := buttonStyle.Render("Add Task")
	if a.focus == focusButton {
		button = focusedButtonStyle.Render("Add Task")
	}

	lines := []string{boxTitleStyle.Render("Add New Task"), taskLine, optionLine}
	if a.focus == focusDate {
		lines = append(lines, a.picker.Calendar())
	}
	lines = append(lines, button)
	return boxStyle.Width(a.boxWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a *App) renderTasks() string {
	title := boxTitleStyle.Render(fmt.Sprintf("Tasks (%d)", a.store.Len()))
	body := a.table.View()
	if a.store.Len() == 0 {
		body = hintStyle.Render("No tasks yet. Type one above and press Enter.")
	}
	return boxStyle.Width(a.boxWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (a *App) renderControls() string {
	return a.help.ShortHelpView(a.keys.bindingsFor(a.focus))
}

func (a *App) renderJournal() string {
	if !a.showJournal || a.journalLines <= 0 || a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(a.journalLines)
	if len(lines) == 0 {
		return ""
	}
	head := boxTitleStyle.Render(fmt.Sprintf("Recent activity · %s", filepath.Base(a.logbook.Path())))
	body := journalStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Width(a.boxWidth()).Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) statusLine() string {
	tasks := a.store.Tasks()
	completed, overdue := 0, 0
	now := a.now()
	for _, t := range tasks {
		if t.Completed() {
			completed++
		}
		if t.Overdue(now) {
			overdue++
		}
	}
	parts := []string{fmt.Sprintf("%d task(s) · %d completed · %d overdue", len(tasks), completed, overdue)}
	if a.statusMsg != "" {
		parts = append(parts, a.statusMsg)
	}
	return strings.Join(parts, " · ")
}

func (a *App) renderDialog() string {
	d := a.dialog
	style := dialogStyle
	hint := "y → yes    n → no"
	if d.kind == dialogError {
		style = errorDialogStyle
		hint = "enter → ok"
	}
	lines := []string{dialogTitleStyle.Render(d.title), d.message}
	if d.detail != "" {
		lines = append(lines, hintStyle.Render(d.detail))
	}
	lines = append(lines, hintStyle.MarginTop(1).Render(hint))
	box := style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
