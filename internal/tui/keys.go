package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Emulate    key.Binding
	Vertical   key.Binding
	Horizontal key.Binding
	Real       key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Emulate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "emulate screens"),
		),
		Vertical: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "vertical split"),
		),
		Horizontal: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "horizontal split"),
		),
		Real: key.NewBinding(
			key.WithKeys("o", "0"),
			key.WithHelp("o", "real displays"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Emulate, k.Real, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Emulate, k.Vertical, k.Horizontal, k.Real},
		{k.Refresh, k.Help, k.Quit},
	}
}
