package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"todo/internal/config"
)

type keyMap struct {
	Quit       key.Binding
	Add        key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Edit       key.Binding
	Grab       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	NextFilter key.Binding
	NextTheme  key.Binding
	ShowAll    key.Binding
	ShowActive key.Binding
	ShowDone   key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		Add:        key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "new task")),
		Up:         key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up+"/↑", "up")),
		Down:       key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down+"/↓", "down")),
		Toggle:     key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(displayKey(k.Toggle), "toggle")),
		Delete:     key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		Edit:       key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Grab:       key.NewBinding(key.WithKeys(k.Grab), key.WithHelp(k.Grab, "move")),
		Confirm:    key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "confirm")),
		Cancel:     key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "cancel")),
		NextFilter: key.NewBinding(key.WithKeys(k.NextFilter), key.WithHelp(k.NextFilter, "filter")),
		NextTheme:  key.NewBinding(key.WithKeys(k.NextTheme), key.WithHelp(k.NextTheme, "theme")),
		ShowAll:    key.NewBinding(key.WithKeys(k.ShowAll), key.WithHelp(k.ShowAll, "all")),
		ShowActive: key.NewBinding(key.WithKeys(k.ShowActive), key.WithHelp(k.ShowActive, "active")),
		ShowDone:   key.NewBinding(key.WithKeys(k.ShowComplete), key.WithHelp(k.ShowComplete, "completed")),
	}
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Grab, k.NextFilter, k.NextTheme, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Confirm, k.Cancel},
		{k.Toggle, k.Edit, k.Delete, k.Grab},
		{k.ShowAll, k.ShowActive, k.ShowDone, k.NextFilter, k.NextTheme, k.Quit},
	}
}

// dragKeys is the reduced help shown while a keyboard drag is in progress.
type dragKeys struct{ keyMap }

func (k dragKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, withHelp(k.Confirm, "drop"), withHelp(k.Cancel, "abort")}
}

func withHelp(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}
