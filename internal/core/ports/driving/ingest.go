package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// IngestService feeds case documents into the vector store.
type IngestService interface {
	// Ingest stores one case. Success is a nil error; re-ingesting a known
	// ID reports domain.IngestAlreadyIndexed.
	Ingest(ctx context.Context, raw domain.RawCase) (domain.IngestStatus, error)

	// IngestURL fetches and stores a single case page.
	// An empty title is derived from the page.
	IngestURL(ctx context.Context, url, title string) (domain.IngestStatus, error)

	// IngestCSV reads case_url, case_title and case_author columns.
	IngestCSV(ctx context.Context, r io.Reader) (domain.IngestReport, error)

	// IngestFile stores a local text, markdown, HTML or PDF file.
	IngestFile(ctx context.Context, path string) (domain.IngestStatus, error)

	// Crawl discovers case links from startURL and ingests up to limit of them.
	Crawl(ctx context.Context, startURL string, limit int) (domain.IngestReport, error)

	// Reindex refreshes stored vectors for the current embedding model.
	Reindex(ctx context.Context) (int, error)

	// Count returns the number of stored cases.
	Count(ctx context.Context) (int, error)
}
