package driven

import (
	"context"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// Normaliser extracts case text from raw bytes.
// Each normaliser handles specific MIME types (e.g., PDF, HTML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts text and, when available, a title.
	// It never truncates; bounding happens later in the pipeline.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Title is empty when the format carries none.
	Title string

	// Text is the extracted plain text.
	Text string
}
