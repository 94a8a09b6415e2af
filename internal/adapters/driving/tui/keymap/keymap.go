// Package keymap defines keybindings for the analysis console.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the console.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Submit sends the idea for analysis.
	Submit key.Binding

	// Back returns from the report to the editor, keeping the idea.
	Back key.Binding

	// NewIdea clears the editor from the report view.
	NewIdea key.Binding

	// Up and Down scroll the report.
	Up   key.Binding
	Down key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "analyse"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "edit idea"),
		),
		NewIdea: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new idea"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// EditorHelp returns keybindings shown while typing an idea.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Help, k.Quit}
}

// ReportHelp returns keybindings shown with a report.
func (k *KeyMap) ReportHelp() []key.Binding {
	return []key.Binding{k.Up, k.Back, k.NewIdea, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Back, k.NewIdea},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
