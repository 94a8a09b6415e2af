package driven

import (
	"context"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// CaseFetcher retrieves case pages from the web.
type CaseFetcher interface {
	// Fetch downloads a single page.
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)

	// Discover finds up to limit case links reachable from startURL.
	Discover(ctx context.Context, startURL string, limit int) ([]domain.CaseLink, error)
}
