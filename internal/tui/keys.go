package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the browser's keybindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the standard browser keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
