package services

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// Normalizer turns raw case text into a bounded, storable chunk.
// It has no side effects beyond reading the clock.
//
// Text is cut at MaxChars runes with no attempt at semantic boundaries;
// anything past the cap is dropped.
type Normalizer struct {
	maxChars int
	now      func() time.Time
}

// NewNormalizer creates a normalizer with the given storage cap.
// A non-positive cap uses domain.DefaultMaxChars.
func NewNormalizer(maxChars int) *Normalizer {
	if maxChars <= 0 {
		maxChars = domain.DefaultMaxChars
	}
	return &Normalizer{maxChars: maxChars, now: time.Now}
}

// MaxChars returns the storage cap.
func (n *Normalizer) MaxChars() int {
	return n.maxChars
}

// Normalize builds the chunk for a raw case. The second return value is
// false when the case has no text, in which case the chunk is zero.
// Embedding is left for the caller.
func (n *Normalizer) Normalize(raw domain.RawCase) (domain.StoredChunk, bool) {
	text := strings.TrimSpace(raw.Text)
	if text == "" {
		return domain.StoredChunk{}, false
	}

	now := n.now().UTC()
	content := truncateRunes(text, n.maxChars)

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = ContentID(content, now)
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = DeriveTitle(text)
	}

	source := raw.Source
	if source == "" {
		source = domain.SourceManual
	}

	return domain.StoredChunk{
		ID:      id,
		Content: content,
		Metadata: domain.CaseMetadata{
			Title:      title,
			URL:        raw.URL,
			Author:     raw.Author,
			Source:     source,
			IngestedAt: now,
		},
	}, true
}

// DeriveTitle returns the first non-empty line of text capped at
// domain.MaxTitleLength runes, or domain.UntitledCase for blank text.
func DeriveTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return truncateRunes(line, domain.MaxTitleLength)
		}
	}
	return domain.UntitledCase
}

// ContentID derives a document ID from content and ingestion time.
// FNV-64a is not collision resistant; identical content ingested in the
// same second maps to the same ID, which the store treats as a re-ingest.
func ContentID(content string, at time.Time) string {
	return fmt.Sprintf("doc_%d_%s", at.Unix(), hashHex(content))
}

// URLID derives a stable document ID from a case URL so that learning the
// same page twice is a no-op.
func URLID(url string) string {
	return "url_" + hashHex(strings.TrimSpace(url))
}

func hashHex(parts ...string) string {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
