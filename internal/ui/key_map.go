package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	start key.Binding
	stop  key.Binding
	tab   key.Binding
	up    key.Binding
	down  key.Binding
	enter key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	k := keyMap{
		start: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start camera")),
		stop:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop camera")),
		tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch grid")),
		up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	k.setCamera(false)
	return k
}

// setCamera enables exactly one of start and stop.
func (k *keyMap) setCamera(on bool) {
	k.start.SetEnabled(!on)
	k.stop.SetEnabled(on)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.start, k.stop, k.tab, k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.start, k.stop},
		{k.up, k.down, k.tab, k.enter},
		{k.quit},
	}
}
