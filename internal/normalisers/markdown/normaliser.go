// Package markdown provides a Normaliser for case notes written in Markdown.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts markdown to plain text, taking the title from the
// first H1 heading or the filename.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, title := render(string(raw.Content))
	if title == "" {
		title = domain.TitleFromPath(raw.URI)
	}
	return &driven.NormaliseResult{Title: title, Text: text}, nil
}

var (
	blockPrefix = regexp.MustCompile(`^\s*(#{1,6}\s+|>\s?|[-*+]\s+|\d+[.)]\s+)`)
	rule        = regexp.MustCompile(`^\s*([-*_]\s*){3,}$`)
	image       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	link        = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	codeSpan    = regexp.MustCompile("`([^`]+)`")
	emphasis    = strings.NewReplacer("**", "", "__", "", "*", "")
)

// render strips formatting line by line and reports the first H1. Every
// word survives, code included, since judgments quote statutes verbatim.
func render(content string) (text, title string) {
	var (
		out    []string
		fenced bool
		blank  int
	)

	emit := func(line string) {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				return
			}
			line = ""
		} else {
			blank = 0
		}
		out = append(out, line)
	}

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fenced = !fenced
			emit("")
			continue
		}
		if fenced {
			emit(line)
			continue
		}

		if title == "" && strings.HasPrefix(trimmed, "# ") {
			title = strings.TrimSpace(trimmed[2:])
		}
		if rule.MatchString(line) {
			emit("")
			continue
		}

		line = blockPrefix.ReplaceAllString(line, "")
		line = image.ReplaceAllString(line, "")
		line = link.ReplaceAllString(line, "$1")
		line = codeSpan.ReplaceAllString(line, "$1")
		emit(emphasis.Replace(line))
	}

	return strings.TrimSpace(strings.Join(out, "\n")), title
}
