package styles

import (
	"strings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// minReportWidth keeps wrapping sane on tiny terminals.
const minReportWidth = 40

// RenderReport formats an analysis for a terminal of the given width.
func (s *Styles) RenderReport(resp domain.AnalysisResponse, width int) string {
	if width < minReportWidth {
		width = minReportWidth
	}
	inner := width - 4

	var b strings.Builder
	b.WriteString(s.Title.Render("Copyright risk assessment"))
	b.WriteString("\n\n")
	b.WriteString(s.Body.Width(inner).Render(strings.TrimSpace(resp.Analysis)))
	b.WriteString("\n\n")

	b.WriteString(s.Heading.Render("Cited cases"))
	b.WriteByte('\n')
	for _, c := range resp.CitedCases {
		b.WriteString(s.Citation.Width(inner).Render("• " + c))
		b.WriteByte('\n')
	}

	switch {
	case resp.Degraded:
		b.WriteByte('\n')
		b.WriteString(s.Warning.Render("No generation provider answered; this is not an assessment."))
	case !resp.Grounded:
		b.WriteByte('\n')
		b.WriteString(s.Warning.Render("No stored case law matched; answer relies on general principles."))
	}
	if resp.Provider != "" {
		b.WriteByte('\n')
		b.WriteString(s.Muted.Render("answered by " + resp.Provider))
	}

	return s.Panel.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}
