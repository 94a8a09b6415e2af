package chroma

import (
	"context"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// Ensure embeddingFunction implements the interface.
var _ embeddings.EmbeddingFunction = (*embeddingFunction)(nil)

// embeddingFunction lets the collection embed with the process-wide
// EmbeddingService instead of chroma-go's bundled ONNX model.
//
// It has no Close method: the collection closes an embedding function that
// implements io.Closer, and the service belongs to the caller.
type embeddingFunction struct {
	embedder driven.EmbeddingService
}

func newEmbeddingFunction(embedder driven.EmbeddingService) *embeddingFunction {
	return &embeddingFunction{embedder: embedder}
}

// EmbedDocuments embeds stored case text.
func (f *embeddingFunction) EmbedDocuments(ctx context.Context, texts []string) ([]embeddings.Embedding, error) {
	out := make([]embeddings.Embedding, 0, len(texts))
	for _, text := range texts {
		vec, err := f.embedder.Embed(ctx, text, domain.PurposeDocument)
		if err != nil {
			return nil, err
		}
		out = append(out, embeddings.NewEmbeddingFromFloat32(vec))
	}
	return out, nil
}

// EmbedQuery embeds a search query.
func (f *embeddingFunction) EmbedQuery(ctx context.Context, text string) (embeddings.Embedding, error) {
	vec, err := f.embedder.Embed(ctx, text, domain.PurposeQuery)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbeddingFromFloat32(vec), nil
}
