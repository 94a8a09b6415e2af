package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Retriever finds the stored cases most relevant to a query.
type Retriever struct {
	store        driven.VectorStore
	embedder     driven.EmbeddingService
	snippetChars int
}

// NewRetriever creates a retriever. The embedder is optional: without one
// the raw query text is handed to the store, which embeds it itself.
// snippetChars caps each hit's content and should match the storage cap.
func NewRetriever(store driven.VectorStore, embedder driven.EmbeddingService, snippetChars int) *Retriever {
	if snippetChars <= 0 {
		snippetChars = domain.DefaultMaxChars
	}
	return &Retriever{
		store:        store,
		embedder:     embedder,
		snippetChars: snippetChars,
	}
}

// Retrieve returns at most k hits in descending relevance. It never fails:
// an embedding or store failure yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) domain.RetrievalResult {
	query = strings.TrimSpace(query)
	if query == "" || r.store == nil {
		return domain.RetrievalResult{}
	}
	if k < 1 {
		k = domain.DefaultTopK
	}

	q := domain.VectorQuery{Text: query}
	if r.embedder != nil {
		vec, err := r.embedder.Embed(ctx, query, domain.PurposeQuery)
		if err != nil || len(vec) == 0 {
			logger.Warn("retrieval: query embedding unavailable (%v), continuing without case law", err)
			return domain.RetrievalResult{}
		}
		q = domain.VectorQuery{Embedding: vec, Model: r.embedder.ModelName()}
	}

	result := r.store.Query(ctx, q, k)
	if len(result.Hits) > k {
		result.Hits = result.Hits[:k]
	}
	for i := range result.Hits {
		result.Hits[i].Chunk.Content = truncateRunes(result.Hits[i].Chunk.Content, r.snippetChars)
	}

	logger.Debug("retrieval: %d hits for %q", len(result.Hits), query)
	return result
}
