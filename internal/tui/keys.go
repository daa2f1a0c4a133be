package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the list-mode bindings; it feeds bubbles/help.
type keyMap struct {
	Up, Down       key.Binding
	Add, Submit    key.Binding
	Delete, Clear  key.Binding
	Filter         key.Binding
	All, Active    key.Binding
	Completed      key.Binding
	Reload, Escape key.Binding
	Help, Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Delete:    key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		Filter:    key.NewBinding(key.WithKeys("f", "tab"), key.WithHelp("f", "next filter")),
		All:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Active:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		Completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Filter, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Submit},
		{k.Delete, k.Clear, k.Reload, k.Escape},
		{k.Filter, k.All, k.Active, k.Completed},
		{k.Help, k.Quit},
	}
}
