package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Home     key.Binding
	End      key.Binding
	Enter    key.Binding
	Back     key.Binding

	// View switching
	Photos     key.Binding
	Videos     key.Binding
	People     key.Binding
	Orphans    key.Binding
	Duplicates key.Binding
	Search     key.Binding

	// Actions
	Quit     key.Binding
	Refresh  key.Binding
	Delete   key.Binding
	Favorite key.Binding
	Assign   key.Binding
	Detach   key.Binding
	Merge    key.Binding
	Rename   key.Binding

	// Duplicate resolutions
	KeepLargest key.Binding
	KeepOldest  key.Binding
	Ignore      key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("^u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("^d", "half page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),

		Photos: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "photos"),
		),
		Videos: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "videos"),
		),
		People: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "people"),
		),
		Orphans: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "orphan faces"),
		),
		Duplicates: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "duplicates"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		Assign: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "assign face"),
		),
		Detach: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "detach face"),
		),
		Merge: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "merge into"),
		),
		Rename: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "rename"),
		),

		KeepLargest: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "keep largest"),
		),
		KeepOldest: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "keep oldest"),
		),
		Ignore: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "not a duplicate"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}
