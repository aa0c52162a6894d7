package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global and per-screen keybindings. Screens hold
// text inputs, so everything that must work while typing uses a
// modifier or a function key.
type KeyMap struct {
	// Tabs
	NextTab key.Binding
	PrevTab key.Binding

	// Operations
	Submit      key.Binding
	Copy        key.Binding
	Replace     key.Binding
	SwitchField key.Binding
	UseBody     key.Binding

	// Reword
	NextTone  key.Binding
	ClearTone key.Binding

	// Compose
	ToggleAnalysis key.Binding
	AnalyzeCurrent key.Binding

	// Analyze
	Generate  key.Binding
	ToggleRaw key.Binding
	Down      key.Binding
	Up        key.Binding

	// Overlays
	Hosts   key.Binding
	Command key.Binding
	Help    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy result"),
		),
		Replace: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "replace in mail"),
		),
		SwitchField: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "switch field"),
		),
		UseBody: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "load email body"),
		),
		NextTone: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "next tone"),
		),
		ClearTone: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear tone"),
		),
		ToggleAnalysis: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "include analysis"),
		),
		AnalyzeCurrent: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "analyze current email"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate response"),
		),
		ToggleRaw: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "raw view"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Hosts: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "mail hosts"),
		),
		Command: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NextTab, k.Submit, k.Copy, k.Replace, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Submit, k.Copy, k.Replace, k.SwitchField, k.UseBody},
		{k.NextTone, k.ClearTone, k.ToggleAnalysis, k.AnalyzeCurrent},
		{k.Generate, k.ToggleRaw, k.Up, k.Down},
		{k.Hosts, k.Command, k.Help, k.Back, k.Quit},
	}
}
