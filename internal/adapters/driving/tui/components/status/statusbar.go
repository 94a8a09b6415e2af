// Package status provides the console status bar.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/styles"
)

// State is what the bar reports on its left side.
type State string

// Bar states.
const (
	StateReady     State = "ready"
	StateAnalysing State = "analysing"
	StateReport    State = "report"
	StateDegraded  State = "degraded"
	StateError     State = "error"
)

// Bar displays console state, store size and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	caseCount int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:    s,
		keymap:    km,
		state:     StateReady,
		caseCount: -1,
		width:     80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	var state string
	switch s.state {
	case StateAnalysing:
		state = s.styles.Muted.Render("Analysing...")
	case StateError:
		state = s.styles.Error.Render("Error: " + s.message)
	case StateDegraded:
		state = s.styles.Warning.Render("Degraded answer")
	case StateReport:
		state = s.styles.Success.Render("Done")
		if s.message != "" {
			state += s.styles.Muted.Render(" via " + s.message)
		}
	default:
		state = s.styles.Muted.Render("Ready")
	}

	if s.caseCount >= 0 {
		state += s.styles.Muted.Render(fmt.Sprintf(" | %d cases", s.caseCount))
	}
	return state
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateReport || s.state == StateDegraded {
		bindings = s.keymap.ReportHelp()
	} else {
		bindings = s.keymap.EditorHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the provider name or error text.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCaseCount records the store size. Negative hides it.
func (s *Bar) SetCaseCount(count int) {
	s.caseCount = count
}

// CaseCount returns the recorded store size.
func (s *Bar) CaseCount() int {
	return s.caseCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the bar to ready, keeping the case count.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
