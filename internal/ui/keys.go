package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ToggleDone key.Binding
	Refresh    key.Binding
	Logs       key.Binding
	Tab        key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Mutations
	NewList    key.Binding
	AddItem    key.Binding
	RenameList key.Binding
	FinishItem key.Binding
	Delete     key.Binding

	// Prompt
	Confirm key.Binding
	Cancel  key.Binding
	Yes     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "Hide/show finished"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Refresh"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Activity log"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch pane"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		NewList: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New list"),
		),
		AddItem: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add item"),
		),
		RenameList: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Rename list"),
		),
		FinishItem: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Finish item"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Confirm delete"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewList, k.AddItem, k.FinishItem, k.Delete, k.Help}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Tab},
		{k.NewList, k.RenameList, k.AddItem, k.FinishItem, k.Delete},
		{k.Refresh, k.ToggleDone, k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
