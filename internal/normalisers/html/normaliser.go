package html

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// caseContainers name the judgment containers of case pages, most specific first.
var caseContainers = []string{"judgments", "doc_content"}

// hidden elements never contribute text.
var hidden = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
}

// blocks start and end a line.
var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Tr: true, atom.Ul: true,
}

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts an HTML page to text. When the page has a judgment
// container only its text is kept; otherwise the whole body is used.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := nethtml.Parse(strings.NewReader(string(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", raw.URI, err)
	}

	return &driven.NormaliseResult{
		Title: pageTitle(doc, raw.URI),
		Text:  visibleText(caseBody(doc)),
	}, nil
}

// caseBody returns the first judgment container, or doc itself.
func caseBody(doc *nethtml.Node) *nethtml.Node {
	for _, class := range caseContainers {
		if node := find(doc, func(n *nethtml.Node) bool {
			return n.DataAtom == atom.Div && hasClass(n, class)
		}); node != nil {
			return node
		}
	}
	return doc
}

// pageTitle reads <title>. Local files without one are named after the file.
func pageTitle(doc *nethtml.Node, uri string) string {
	if t := find(doc, func(n *nethtml.Node) bool { return n.DataAtom == atom.Title }); t != nil {
		if title := strings.Join(strings.Fields(rawText(t)), " "); title != "" {
			return title
		}
	}
	return domain.TitleFromPath(uri)
}

// visibleText renders the text a reader would see, one block per line.
func visibleText(root *nethtml.Node) string {
	var b strings.Builder
	writeText(&b, root, false)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func writeText(b *strings.Builder, n *nethtml.Node, pre bool) {
	switch n.Type {
	case nethtml.TextNode:
		if pre {
			b.WriteString(n.Data)
			return
		}
		// Runs of whitespace, including the edges, collapse to one space.
		if strings.TrimLeftFunc(n.Data, unicode.IsSpace) != n.Data {
			b.WriteByte(' ')
		}
		b.WriteString(strings.Join(strings.Fields(n.Data), " "))
		if strings.TrimRightFunc(n.Data, unicode.IsSpace) != n.Data {
			b.WriteByte(' ')
		}
		return
	case nethtml.ElementNode:
		if hidden[n.DataAtom] {
			return
		}
		pre = pre || n.DataAtom == atom.Pre
	case nethtml.CommentNode, nethtml.DoctypeNode:
		return
	}

	block := n.Type == nethtml.ElementNode && blocks[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, pre)
	}
	switch {
	case block:
		b.WriteByte('\n')
	case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
		b.WriteByte(' ')
	}
}

func rawText(n *nethtml.Node) string {
	if n.Type == nethtml.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(rawText(c))
	}
	return b.String()
}

func find(n *nethtml.Node, match func(*nethtml.Node) bool) *nethtml.Node {
	if n.Type == nethtml.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *nethtml.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
