package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add, Edit, Toggle, Delete, ToggleAll, Clear key.Binding
	NextFilter, All, Active, Completed         key.Binding
	Dismiss, Quit, Submit, Cancel              key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ToggleAll:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
		All:        key.NewBinding(key.WithKeys("1")),
		Active:     key.NewBinding(key.WithKeys("2")),
		Completed:  key.NewBinding(key.WithKeys("3")),
		Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hide error")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:     key.NewBinding(key.WithKeys("enter")),
		Cancel:     key.NewBinding(key.WithKeys("esc")),
	}
}

func (k keyMap) extra() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.ToggleAll, k.Clear, k.NextFilter, k.Dismiss}
}
