package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the application
type KeyMap struct {
	// Focus
	Next key.Binding
	Prev key.Binding
	Back key.Binding

	// Form
	Submit    key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding

	// Task list
	Delete   key.Binding
	Complete key.Binding
	ClearAll key.Binding

	// Dialogs
	Confirm key.Binding
	Cancel  key.Binding
	Dismiss key.Binding

	Quit      key.Binding
	Interrupt key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to form"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add task"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→", "change"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "change"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓", "week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "week"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("pgup", "["),
			key.WithHelp("pgup/pgdn", "month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("pgdown", "]"),
			key.WithHelp("pgdn", "month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "mark complete"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear all"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter", "ok"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// bindingsFor returns the hints shown in the controls line for a focus target.
func (k KeyMap) bindingsFor(f focus) []key.Binding {
	switch f {
	case focusPriority:
		return []key.Binding{k.Left, k.Submit, k.Next, k.Interrupt}
	case focusDate:
		return []key.Binding{k.Left, k.Up, k.PrevMonth, k.Today, k.Submit, k.Next}
	case focusButton:
		return []key.Binding{k.Submit, k.Next, k.Prev, k.Interrupt}
	case focusList:
		return []key.Binding{k.Delete, k.Complete, k.ClearAll, k.Back, k.Quit}
	default:
		return []key.Binding{k.Submit, k.Next, k.Interrupt}
	}
}
