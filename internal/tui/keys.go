package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the key bindings of the game screen.
type keyMap struct {
	Tower1 key.Binding
	Tower2 key.Binding
	Tower3 key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Reset  key.Binding
	More   key.Binding
	Fewer  key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Tower1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tower 1")),
		Tower2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tower 2")),
		Tower3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "tower 3")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "cursor left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "cursor right")),
		Select: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "select")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		More:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more disks")),
		Fewer:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer disks")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Reset, k.More, k.Fewer, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tower1, k.Tower2, k.Tower3},
		{k.Left, k.Right, k.Select},
		{k.Reset, k.More, k.Fewer},
		{k.Theme, k.Help, k.Quit},
	}
}
