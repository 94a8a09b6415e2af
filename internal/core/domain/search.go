package domain

// EmbedPurpose tells asymmetric embedding models which side of the
// retrieval the text is on.
type EmbedPurpose string

// Embedding purposes.
const (
	PurposeDocument EmbedPurpose = "document"
	PurposeQuery    EmbedPurpose = "query"
)

// DefaultTopK is the number of cases retrieved per query.
const DefaultTopK = 3

// VectorQuery is a similarity query. Exactly one of Text or Embedding
// is normally set; when Embedding is present it wins and Text is ignored.
type VectorQuery struct {
	Text      string
	Embedding []float32

	// Model names the model that produced Embedding. When set, only
	// chunks embedded by the same model are compared.
	Model string
}

// HasEmbedding reports whether the caller supplied a precomputed vector.
func (q VectorQuery) HasEmbedding() bool {
	return len(q.Embedding) > 0
}

// RetrievalHit pairs a stored chunk with its relevance score.
// Score is cosine similarity: higher is more relevant.
type RetrievalHit struct {
	Chunk StoredChunk
	Score float64
}

// RetrievalResult is ordered by descending Score.
type RetrievalResult struct {
	Hits []RetrievalHit
}

// Len returns the number of hits.
func (r RetrievalResult) Len() int {
	return len(r.Hits)
}

// IsEmpty reports whether nothing was retrieved.
func (r RetrievalResult) IsEmpty() bool {
	return len(r.Hits) == 0
}

// Titles returns the distinct case titles in result order.
// Only identical strings are collapsed; the first occurrence wins. Untitled
// cases are cited as UnknownCaseTitle.
func (r RetrievalResult) Titles() []string {
	seen := make(map[string]struct{}, len(r.Hits))
	titles := make([]string, 0, len(r.Hits))
	for _, hit := range r.Hits {
		t := hit.Chunk.DisplayTitle()
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		titles = append(titles, t)
	}
	return titles
}
