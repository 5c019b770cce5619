package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next    key.Binding
	prev    key.Binding
	watch   key.Binding
	later   key.Binding
	watched key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:    key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab")),
		prev:    key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab")),
		watch:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "watching")),
		later:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "will watch")),
		watched: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "watched")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.watch, k.later, k.watched, k.refresh, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev},
		{k.watch, k.later, k.watched},
		{k.refresh, k.quit},
	}
}
