// Package pdf provides a Normaliser for PDF judgments using a pure Go
// text extractor.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxTitleLen rejects a first line that is really a paragraph.
const maxTitleLen = 200

// Extractor turns PDF bytes into plain text.
type Extractor func(content []byte) (string, error)

// Normaliser handles PDF documents.
type Normaliser struct {
	extract Extractor
}

// New creates a PDF normaliser backed by ledongthuc/pdf.
func New() *Normaliser {
	return &Normaliser{extract: extractText}
}

// NewWithExtractor creates a normaliser with a custom extractor.
func NewWithExtractor(extract Extractor) *Normaliser {
	return &Normaliser{extract: extract}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise concatenates the text of every page.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := n.extract(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("pdf %s: %w", raw.URI, err)
	}
	text = cleanText(text)

	return &driven.NormaliseResult{
		Title: extractTitle(text, raw.URI),
		Text:  text,
	}, nil
}

// extractText reads plain text from PDF bytes. The reader panics on some
// malformed files, so panics are turned into errors.
func extractText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// cleanText trims lines and drops empty ones.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// extractTitle uses the first short line of text, then the filename of a
// local file.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLen {
			return line
		}
	}

	return domain.TitleFromPath(uri)
}
