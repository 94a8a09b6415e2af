package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Storage limits and placeholders shared by ingestion and retrieval.
const (
	// DefaultMaxChars caps the text kept per case, both when storing
	// and when building prompt context.
	DefaultMaxChars = 9000

	// MaxTitleLength caps titles derived from case text.
	MaxTitleLength = 100

	// UntitledCase is used when neither a title nor text is available.
	UntitledCase = "Untitled Legal Case"
)

// Source tags recorded with every stored chunk.
const (
	SourceAutonomousLearning = "autonomous_learning"
	SourceCaseList           = "case_list"
	SourceLocalFile          = "local_file"
	SourceManual             = "manual"
)

// CaseMetadata is the metadata record stored alongside a chunk.
type CaseMetadata struct {
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Author     string    `json:"author,omitempty"`
	Source     string    `json:"source"`
	IngestedAt time.Time `json:"ingested_at"`
}

// StoredChunk is one bounded slice of a case document.
// There is exactly one chunk per case; the chunk ID is the case ID.
type StoredChunk struct {
	// ID is the stable case identity.
	ID string

	// Content is the case text truncated to the storage cap.
	Content string

	// Embedding is the document-purpose vector. May be nil when the
	// store embeds content itself.
	Embedding []float32

	// Model names the embedding model that produced Embedding.
	Model string

	Metadata CaseMetadata
}

// Title returns the chunk's case title.
func (c StoredChunk) Title() string {
	return c.Metadata.Title
}

// UnknownCaseTitle labels a case stored without a title.
const UnknownCaseTitle = "Unknown Case"

// DisplayTitle is the title used when citing the case.
func (c StoredChunk) DisplayTitle() string {
	if c.Metadata.Title == "" {
		return UnknownCaseTitle
	}
	return c.Metadata.Title
}

// TitleFromPath names a local case file after its base name, with
// separators turned into spaces. Remote URIs yield "".
func TitleFromPath(uri string) string {
	if uri == "" || strings.Contains(uri, "://") {
		return ""
	}
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
}
