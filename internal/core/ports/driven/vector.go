package driven

import (
	"context"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// VectorStore owns chunk persistence and similarity search.
// Writes are serialised by the implementation; reads may run concurrently.
type VectorStore interface {
	// Upsert stores a chunk. It returns false without error when the ID is
	// already indexed; existing chunks are never modified. A chunk without
	// an embedding is embedded by the store itself.
	Upsert(ctx context.Context, chunk domain.StoredChunk) (bool, error)

	// Exists reports whether a chunk with the given ID is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// Query returns at most k chunks ordered by descending similarity.
	// A text query is embedded by the store; a supplied embedding is used as is.
	// Query never fails: an empty store or a backend error yields an empty result.
	Query(ctx context.Context, q domain.VectorQuery, k int) domain.RetrievalResult

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// Reembedder is implemented by stores that can refresh stored vectors
// in place after the embedding model changes.
type Reembedder interface {
	// Reembed embeds every chunk whose vector is missing or came from a
	// different model. It returns the number of chunks updated.
	Reembed(ctx context.Context) (int, error)
}
