package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Accept key.Binding
	Reject key.Binding
	Delete key.Binding
	Next   key.Binding
	Prev   key.Binding
	Jump   key.Binding
	Save   key.Binding
	Reload key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Accept: key.NewBinding(key.WithKeys("1", "y"), key.WithHelp("1", "job")),
		Reject: key.NewBinding(key.WithKeys("0", "n"), key.WithHelp("0", "not job")),
		Delete: key.NewBinding(key.WithKeys("delete", "x"), key.WithHelp("del", "delete")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
		Jump:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "jump")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "save & exit")),
		Abort:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit without saving")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Reject, k.Delete, k.Prev, k.Next, k.Jump, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Accept, k.Reject, k.Delete},
		{k.Prev, k.Next, k.Jump},
		{k.Save, k.Reload, k.Quit, k.Abort},
	}
}
