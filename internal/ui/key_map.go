package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	submit     key.Binding
	back       key.Binding
	cancel     key.Binding
	section    key.Binding
	sort       key.Binding
	regenerate key.Binding
	open       key.Binding
	quit       key.Binding
	forceQuit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "get recommendations")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		section:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch section")),
		sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		regenerate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "regenerate")),
		open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open on IMDb")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.section, k.sort, k.regenerate},
		{k.open, k.back, k.quit},
	}
}
