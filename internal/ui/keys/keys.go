package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding used by the views
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Toggle key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding

	QuickFilter   key.Binding
	DateWindow    key.Binding
	TagFilter     key.Binding
	Sort          key.Binding
	ShowCompleted key.Binding
	ResetFilters  key.Binding

	CycleStatus  key.Binding
	Complete     key.Binding
	Duplicate    key.Binding
	SaveTemplate key.Binding
	FromTemplate key.Binding
	AddSupply    key.Binding
	MoveCategory key.Binding
	Categories   key.Binding
	Help         key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		QuickFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "quick filter"),
		),
		DateWindow: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "due window"),
		),
		TagFilter: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tags"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "hide done"),
		),
		ResetFilters: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset filters"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "duplicate"),
		),
		SaveTemplate: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "save template"),
		),
		FromTemplate: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "from template"),
		),
		AddSupply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add supply"),
		),
		MoveCategory: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to next category"),
		),
		Categories: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "categories"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
