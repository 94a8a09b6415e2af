// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - Gemini (text-embedding-004, asymmetric task types)
//   - OpenAI (text-embedding-3-small)
//   - Ollama (nomic-embed-text)
//   - Feature hashing (offline, no model)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Purpose lets asymmetric models embed queries and documents differently;
	// symmetric models ignore it.
	Embed(ctx context.Context, text string, purpose domain.EmbedPurpose) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// Vectors from different models are never compared.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
