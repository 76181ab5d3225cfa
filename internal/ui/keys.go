package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every binding the model reacts to
type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Up      key.Binding
	Down    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Dismiss key.Binding
	Copy    key.Binding
	PageUp  key.Binding
	PageDn  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "suggestion / field")),
		Down:    key.NewBinding(key.WithKeys("down")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+x"), key.WithHelp("esc", "cancel search")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close suggestions")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy path")),
		PageUp:  key.NewBinding(key.WithKeys("pgup", "ctrl+up"), key.WithHelp("pgup/pgdn", "scroll results")),
		PageDn:  key.NewBinding(key.WithKeys("pgdown", "ctrl+down")),
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Cancel, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up},
		{k.Submit, k.Cancel, k.Dismiss},
		{k.Copy, k.PageUp, k.Help, k.Quit},
	}
}
