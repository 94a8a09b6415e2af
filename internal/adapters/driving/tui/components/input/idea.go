// Package input provides the multi-line idea editor.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/styles"
)

// Editor sizing.
const (
	DefaultHeight = 6
	minWidth      = 20
	charLimit     = 4000
)

// IdeaInput wraps a bubbles textarea with console styling.
type IdeaInput struct {
	textarea textarea.Model
	styles   *styles.Styles
	width    int
}

// NewIdeaInput creates a focused editor.
func NewIdeaInput(s *styles.Styles) *IdeaInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ta := textarea.New()
	ta.Placeholder = "Describe your story, product or design..."
	ta.CharLimit = charLimit
	ta.ShowLineNumbers = false
	ta.SetHeight(DefaultHeight)
	ta.SetWidth(60)
	ta.Focus()

	return &IdeaInput{
		textarea: ta,
		styles:   s,
		width:    60,
	}
}

// Init starts the cursor blinking.
func (i *IdeaInput) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles input messages.
func (i *IdeaInput) Update(msg tea.Msg) (*IdeaInput, tea.Cmd) {
	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	return i, cmd
}

// View renders the editor.
func (i *IdeaInput) View() string {
	label := i.styles.Title.Render("Your idea")
	return lipgloss.JoinVertical(lipgloss.Left, label, i.styles.InputField.Render(i.textarea.View()))
}

// Value returns the trimmed idea.
func (i *IdeaInput) Value() string {
	return strings.TrimSpace(i.textarea.Value())
}

// SetValue replaces the idea.
func (i *IdeaInput) SetValue(value string) {
	i.textarea.SetValue(value)
}

// Focus sets focus on the editor.
func (i *IdeaInput) Focus() tea.Cmd {
	return i.textarea.Focus()
}

// Blur removes focus from the editor.
func (i *IdeaInput) Blur() {
	i.textarea.Blur()
}

// Focused returns whether the editor is focused.
func (i *IdeaInput) Focused() bool {
	return i.textarea.Focused()
}

// SetWidth sizes the editor to the terminal, leaving room for the frame.
func (i *IdeaInput) SetWidth(width int) {
	i.width = width
	inner := width - 4
	if inner < minWidth {
		inner = minWidth
	}
	i.textarea.SetWidth(inner)
}

// Width returns the current width.
func (i *IdeaInput) Width() int {
	return i.width
}

// Reset clears the editor.
func (i *IdeaInput) Reset() {
	i.textarea.Reset()
}
