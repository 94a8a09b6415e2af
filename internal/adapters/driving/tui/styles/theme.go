// Package styles provides the colour theme and lipgloss styles for the
// analysis console and the CLI's rendered reports.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette.
type Theme struct {
	Accent     lipgloss.Color
	Highlight  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Low        lipgloss.Color
	Caution    lipgloss.Color
	Danger     lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#B4637A"), // Burgundy
		Highlight:  lipgloss.Color("#D7827E"), // Rose
		Foreground: lipgloss.Color("#E0DEF4"),
		Muted:      lipgloss.Color("#6E6A86"),
		Low:        lipgloss.Color("#9CCFD8"), // Teal
		Caution:    lipgloss.Color("#F6C177"), // Gold
		Danger:     lipgloss.Color("#EB6F92"), // Red
		Border:     lipgloss.Color("#403D52"),
		Bar:        lipgloss.Color("#1F1D2E"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title renders headings.
	Title lipgloss.Style

	// Heading renders section labels such as "Cited cases".
	Heading lipgloss.Style

	// Body renders the analysis text.
	Body lipgloss.Style

	// Muted renders hints and metadata.
	Muted lipgloss.Style

	// Citation renders a single cited case.
	Citation lipgloss.Style

	// Error renders failures.
	Error lipgloss.Style

	// Success renders confirmations.
	Success lipgloss.Style

	// Warning renders degraded or ungrounded notices.
	Warning lipgloss.Style

	// InputField frames the idea editor.
	InputField lipgloss.Style

	// Panel frames the analysis report.
	Panel lipgloss.Style

	// StatusBar renders the bottom bar.
	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Heading: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(theme.Highlight),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Citation: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Low).
			PaddingLeft(2),

		Error: lipgloss.NewStyle().
			Foreground(theme.Danger),

		Success: lipgloss.NewStyle().
			Foreground(theme.Low),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Caution),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
