package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Timer    key.Binding
	Complete key.Binding
	Filter   key.Binding
	Theme    key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Timer:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
		Complete: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Clear:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Quit:     key.NewBinding(key.WithKeys("q", keyEsc), key.WithHelp("q", "quit")),
	}
}

// help lists the bindings shown in the status bar.
func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Timer, k.Complete, k.Filter, k.Theme, k.Clear, k.Quit}
}
