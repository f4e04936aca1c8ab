package activitybar

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the activity bar.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	TogglePin key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open panel"),
		),
		TogglePin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle pin"),
		),
	}
}
