// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// GlobalKeyMap holds bindings active on every screen.
type GlobalKeyMap struct {
	Quit  key.Binding
	Reset key.Binding
	Help  key.Binding
	Logs  key.Binding
}

// FormKeyMap holds bindings for the profile form.
type FormKeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Cycle     key.Binding
	CyclePrev key.Binding
	Submit    key.Binding
}

// PlanKeyMap holds bindings for the plan screen.
type PlanKeyMap struct {
	FocusNext key.Binding
	FocusPrev key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Send      key.Binding
}

// Global bindings.
var Global = GlobalKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new session"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+h"),
		key.WithHelp("ctrl+h", "toggle help"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "debug logs"),
	),
}

// Form bindings.
var Form = FormKeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "previous field"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next option"),
	),
	CyclePrev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous option"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "generate plan"),
	),
}

// Plan bindings.
var Plan = PlanKeyMap{
	FocusNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next panel"),
	),
	FocusPrev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous panel"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send question"),
	),
}

// ShortHelp implements help.KeyMap.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Cycle, k.Submit, Global.Quit}
}

// FullHelp implements help.KeyMap.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Cycle, k.CyclePrev},
		{k.Submit, Global.Help, Global.Quit},
	}
}

// ShortHelp implements help.KeyMap.
func (k PlanKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusNext, k.Select, Global.Reset, Global.Quit}
}

// FullHelp implements help.KeyMap.
func (k PlanKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.FocusPrev, k.Up, k.Down},
		{k.Select, k.PageUp, k.PageDown, k.Send},
		{Global.Reset, Global.Help, Global.Quit},
	}
}
