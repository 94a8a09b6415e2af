// Package chroma provides a vector store backed by a ChromaDB server.
//
// Every chunk is added with an explicit embedding, and the collection is
// opened with the caller's EmbeddingService as its embedding function, so
// chroma-go's bundled model is never loaded. The collection is created with
// cosine space; scores are reported as 1 - distance.
package chroma

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// overfetch widens the server-side query so that client-side model
// filtering can still fill k hits.
const overfetch = 4

// records is the subset of collection behaviour the store relies on.
type records interface {
	add(ctx context.Context, chunk domain.StoredChunk) error
	has(ctx context.Context, id string) (bool, error)
	query(ctx context.Context, embedding []float32, n int) ([]domain.RetrievalHit, error)
	count(ctx context.Context) (int, error)
	close() error
}

// Store is the ChromaDB-backed vector store.
type Store struct {
	records  records
	writeMu  sync.Mutex
	embedder driven.EmbeddingService
}

// NewStore connects to the Chroma server at baseURL and opens (or creates)
// the named collection. An empty baseURL uses the client default. The
// embedder is required.
func NewStore(ctx context.Context, baseURL, collection string, embedder driven.EmbeddingService) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: chroma needs an embedding service", domain.ErrInvalidInput)
	}
	if collection == "" {
		collection = domain.DefaultCollection
	}
	recs, err := openCollection(ctx, baseURL, collection, newEmbeddingFunction(embedder))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return newStore(recs, embedder), nil
}

func newStore(recs records, embedder driven.EmbeddingService) *Store {
	return &Store{records: recs, embedder: embedder}
}

// Upsert adds a chunk unless its ID is already present. A chunk without an
// embedding is embedded here; if that is impossible the chunk is rejected,
// since Chroma would otherwise fall back to its own model.
func (s *Store) Upsert(ctx context.Context, chunk domain.StoredChunk) (bool, error) {
	if chunk.ID == "" {
		return false, domain.ErrInvalidInput
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	exists, err := s.records.has(ctx, chunk.ID)
	if err != nil {
		return false, fmt.Errorf("checking chunk: %w", err)
	}
	if exists {
		return false, nil
	}

	if len(chunk.Embedding) == 0 {
		if s.embedder == nil {
			return false, fmt.Errorf("%w: chroma needs an embedding for %s", domain.ErrEmbeddingUnavailable, chunk.ID)
		}
		vec, err := s.embedder.Embed(ctx, chunk.Content, domain.PurposeDocument)
		if err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		chunk.Embedding = vec
		chunk.Model = s.embedder.ModelName()
	}
	if chunk.Metadata.IngestedAt.IsZero() {
		chunk.Metadata.IngestedAt = time.Now().UTC()
	}

	if err := s.records.add(ctx, chunk); err != nil {
		return false, fmt.Errorf("adding chunk: %w", err)
	}
	return true, nil
}

// Exists reports whether a chunk with the given ID is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	return s.records.has(ctx, id)
}

// Query returns the k most similar chunks produced by the query's model.
func (s *Store) Query(ctx context.Context, q domain.VectorQuery, k int) domain.RetrievalResult {
	if k <= 0 {
		return domain.RetrievalResult{}
	}
	if !q.HasEmbedding() {
		if s.embedder == nil || q.Text == "" {
			return domain.RetrievalResult{}
		}
		vec, err := s.embedder.Embed(ctx, q.Text, domain.PurposeQuery)
		if err != nil {
			logger.Warn("chroma: query embedding failed: %v", err)
			return domain.RetrievalResult{}
		}
		q = domain.VectorQuery{Embedding: vec, Model: s.embedder.ModelName()}
	}

	n, err := s.records.count(ctx)
	if err != nil {
		logger.Warn("chroma: count failed: %v", err)
		return domain.RetrievalResult{}
	}
	if n == 0 {
		return domain.RetrievalResult{}
	}

	raw, err := s.records.query(ctx, q.Embedding, min(n, k*overfetch))
	if err != nil {
		logger.Warn("chroma: query failed: %v", err)
		return domain.RetrievalResult{}
	}

	hits := make([]domain.RetrievalHit, 0, len(raw))
	for _, h := range raw {
		if q.Model != "" && h.Chunk.Model != "" && h.Chunk.Model != q.Model {
			continue
		}
		hits = append(hits, h)
	}
	return domain.RetrievalResult{Hits: similarity.TopK(hits, k)}
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.records.count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.records.close()
}
