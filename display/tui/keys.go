package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings for the watch view.
// It implements the help.KeyMap interface for bubbles/help integration.
type keyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Help    key.Binding
}

// ShortHelp returns the compact set of keybindings shown by default in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NextTab, k.Quit}
}

// FullHelp returns the expanded keybinding groups shown when help is toggled.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab},
		{k.Tab1, k.Tab2, k.Tab3},
		{k.Help, k.Quit},
	}
}

// keys holds the default key bindings used by the watch view.
var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	NextTab: key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
	PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
	Tab1:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "network")),
	Tab2:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "wifi")),
	Tab3:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "system")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}
