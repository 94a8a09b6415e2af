// Package memory provides an in-memory vector store for tests and
// throwaway sessions. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Ensure VectorStore implements the interfaces.
var (
	_ driven.VectorStore = (*VectorStore)(nil)
	_ driven.Reembedder  = (*VectorStore)(nil)
)

// VectorStore keeps chunks in insertion order behind a RWMutex.
type VectorStore struct {
	mu       sync.RWMutex
	chunks   map[string]domain.StoredChunk
	order    []string
	embedder driven.EmbeddingService
}

// NewVectorStore creates an empty store. The embedder is optional and is
// used for text queries and for chunks stored without a vector.
func NewVectorStore(embedder driven.EmbeddingService) *VectorStore {
	return &VectorStore{
		chunks:   make(map[string]domain.StoredChunk),
		embedder: embedder,
	}
}

// Upsert stores a chunk unless its ID is already present.
func (s *VectorStore) Upsert(ctx context.Context, chunk domain.StoredChunk) (bool, error) {
	if chunk.ID == "" {
		return false, domain.ErrInvalidInput
	}
	if exists, _ := s.Exists(ctx, chunk.ID); exists {
		return false, nil
	}
	if len(chunk.Embedding) == 0 && s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, chunk.Content, domain.PurposeDocument)
		if err != nil {
			logger.Warn("memory store: storing %s without embedding: %v", chunk.ID, err)
		} else {
			chunk.Embedding = vec
			chunk.Model = s.embedder.ModelName()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[chunk.ID]; ok {
		return false, nil
	}
	chunk.Embedding = append([]float32(nil), chunk.Embedding...)
	s.chunks[chunk.ID] = chunk
	s.order = append(s.order, chunk.ID)
	return true, nil
}

// Exists reports whether the ID is stored.
func (s *VectorStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chunks[id]
	return ok, nil
}

// Get returns a stored chunk.
func (s *VectorStore) Get(_ context.Context, id string) (*domain.StoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// Query ranks every comparable chunk by cosine similarity.
func (s *VectorStore) Query(ctx context.Context, q domain.VectorQuery, k int) domain.RetrievalResult {
	if !q.HasEmbedding() {
		if s.embedder == nil || q.Text == "" {
			return domain.RetrievalResult{}
		}
		vec, err := s.embedder.Embed(ctx, q.Text, domain.PurposeQuery)
		if err != nil {
			logger.Warn("memory store: query embedding failed: %v", err)
			return domain.RetrievalResult{}
		}
		q = domain.VectorQuery{Embedding: vec, Model: s.embedder.ModelName()}
	}

	s.mu.RLock()
	hits := make([]domain.RetrievalHit, 0, len(s.order))
	for _, id := range s.order {
		chunk := s.chunks[id]
		if !similarity.Comparable(chunk, q) {
			continue
		}
		hits = append(hits, domain.RetrievalHit{
			Chunk: chunk,
			Score: similarity.Cosine(q.Embedding, chunk.Embedding),
		})
	}
	s.mu.RUnlock()

	return domain.RetrievalResult{Hits: similarity.TopK(hits, k)}
}

// Count returns the number of stored chunks.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Reembed refreshes vectors that are missing or from another model.
func (s *VectorStore) Reembed(ctx context.Context) (int, error) {
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	model := s.embedder.ModelName()

	s.mu.RLock()
	var stale []domain.StoredChunk
	for _, id := range s.order {
		if c := s.chunks[id]; len(c.Embedding) == 0 || c.Model != model {
			stale = append(stale, c)
		}
	}
	s.mu.RUnlock()

	updated := 0
	for _, c := range stale {
		vec, err := s.embedder.Embed(ctx, c.Content, domain.PurposeDocument)
		if err != nil {
			return updated, err
		}
		c.Embedding, c.Model = vec, model
		s.mu.Lock()
		s.chunks[c.ID] = c
		s.mu.Unlock()
		updated++
	}
	return updated, nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
