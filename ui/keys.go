package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send     key.Binding
	Newline  key.Binding
	Reset    key.Binding
	Copy     key.Binding
	Samples  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Send")),
	Newline:  key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("Alt+Enter", "Newline")),
	Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Clear chat")),
	Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("Ctrl+Y", "Copy answer")),
	Samples:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("Ctrl+O", "Samples")),
	Up:       key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:     key.NewBinding(key.WithKeys("down", "ctrl+n")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "Scroll up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "Scroll down")),
	Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "Help")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("Esc", "Quit")),
}
