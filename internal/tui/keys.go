package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Delete key.Binding
	Reset  key.Binding
	Hint   key.Binding
	Retry  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev cell")),
		Right:  key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "next cell")),
		Delete: key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("⌫", "clear")),
		Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "new run")),
		Hint:   key.NewBinding(key.WithKeys("ctrl+h"), key.WithHelp("ctrl+h", "hint")),
		Retry:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "retry save")),
		Help:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Delete, k.Hint, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Delete},
		{k.Reset, k.Hint, k.Retry},
		{k.Help, k.Quit},
	}
}
