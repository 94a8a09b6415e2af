package chroma

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Metadata keys written with every chunk.
const (
	metaTitle      = "title"
	metaURL        = "url"
	metaAuthor     = "author"
	metaSource     = "source"
	metaModel      = "model"
	metaIngestedAt = "ingested_at"
)

// collection adapts a chromago.Collection to records.
type collection struct {
	client chromago.Client
	coll   chromago.Collection
}

func openCollection(ctx context.Context, baseURL, name string, ef embeddings.EmbeddingFunction) (*collection, error) {
	var opts []chromago.ClientOption
	if baseURL != "" {
		opts = append(opts, chromago.WithBaseURL(baseURL))
	}
	client, err := chromago.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating chroma client: %w", err)
	}

	coll, err := client.GetOrCreateCollection(ctx, name,
		chromago.WithEmbeddingFunctionCreate(ef),
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "Legal case documents"),
				chromago.NewStringAttribute("hnsw:space", "cosine"),
			),
		),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("opening collection %s: %w", name, err)
	}

	logger.Debug("chroma: using collection %q", name)
	return &collection{client: client, coll: coll}, nil
}

func (c *collection) add(ctx context.Context, chunk domain.StoredChunk) error {
	meta := chromago.NewDocumentMetadata(
		chromago.NewStringAttribute(metaTitle, chunk.Metadata.Title),
		chromago.NewStringAttribute(metaURL, chunk.Metadata.URL),
		chromago.NewStringAttribute(metaAuthor, chunk.Metadata.Author),
		chromago.NewStringAttribute(metaSource, chunk.Metadata.Source),
		chromago.NewStringAttribute(metaModel, chunk.Model),
		chromago.NewStringAttribute(metaIngestedAt, chunk.Metadata.IngestedAt.Format(time.RFC3339)),
	)
	return c.coll.Add(ctx,
		chromago.WithIDs(chromago.DocumentID(chunk.ID)),
		chromago.WithTexts(chunk.Content),
		chromago.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(chunk.Embedding)),
		chromago.WithMetadatas(meta),
	)
}

func (c *collection) has(ctx context.Context, id string) (bool, error) {
	res, err := c.coll.Get(ctx, chromago.WithIDsGet(chromago.DocumentID(id)))
	if err != nil {
		return false, err
	}
	return len(res.GetIDs()) > 0, nil
}

func (c *collection) query(ctx context.Context, embedding []float32, n int) ([]domain.RetrievalHit, error) {
	results, err := c.coll.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chromago.WithNResults(n),
	)
	if err != nil {
		return nil, err
	}

	idGroups := results.GetIDGroups()
	docGroups := results.GetDocumentsGroups()
	metaGroups := results.GetMetadatasGroups()
	distGroups := results.GetDistancesGroups()
	if len(idGroups) == 0 {
		return nil, nil
	}

	hits := make([]domain.RetrievalHit, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		chunk := domain.StoredChunk{ID: string(id)}
		if len(docGroups) > 0 && i < len(docGroups[0]) {
			chunk.Content = docGroups[0][i].ContentString()
		}
		if len(metaGroups) > 0 && i < len(metaGroups[0]) && metaGroups[0][i] != nil {
			applyMetadata(&chunk, decodeMetadata(metaGroups[0][i]))
		}
		score := 0.0
		if len(distGroups) > 0 && i < len(distGroups[0]) {
			score = 1 - float64(distGroups[0][i])
		}
		hits = append(hits, domain.RetrievalHit{Chunk: chunk, Score: score})
	}
	return hits, nil
}

func (c *collection) count(ctx context.Context) (int, error) {
	return c.coll.Count(ctx)
}

func (c *collection) close() error {
	return c.client.Close()
}

// decodeMetadata flattens chroma metadata through JSON; DocumentMetadata
// exposes no plain map accessor.
func decodeMetadata(meta any) map[string]any {
	out := map[string]any{}
	b, err := json.Marshal(meta)
	if err != nil {
		logger.Warn("chroma: could not marshal metadata: %v", err)
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		logger.Warn("chroma: could not unmarshal metadata: %v", err)
	}
	return out
}

func applyMetadata(chunk *domain.StoredChunk, m map[string]any) {
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	chunk.Model = str(metaModel)
	chunk.Metadata = domain.CaseMetadata{
		Title:  str(metaTitle),
		URL:    str(metaURL),
		Author: str(metaAuthor),
		Source: str(metaSource),
	}
	if t, err := time.Parse(time.RFC3339, str(metaIngestedAt)); err == nil {
		chunk.Metadata.IngestedAt = t
	}
}
