package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hit(title string, score float64) RetrievalHit {
	return RetrievalHit{
		Chunk: StoredChunk{ID: title, Metadata: CaseMetadata{Title: title}},
		Score: score,
	}
}

func TestRetrievalResult_Titles_PreservesOrder(t *testing.T) {
	r := RetrievalResult{Hits: []RetrievalHit{hit("Case B", 0.9), hit("Case A", 0.5), hit("Case C", 0.1)}}

	assert.Equal(t, []string{"Case B", "Case A", "Case C"}, r.Titles())
}

func TestRetrievalResult_Titles_DeduplicatesIdenticalOnly(t *testing.T) {
	r := RetrievalResult{Hits: []RetrievalHit{
		hit("Case A", 0.9),
		hit("case a", 0.8),
		hit("Case A", 0.7),
		hit("Case B", 0.6),
	}}

	assert.Equal(t, []string{"Case A", "case a", "Case B"}, r.Titles())
}

func TestRetrievalResult_Empty(t *testing.T) {
	var r RetrievalResult

	assert.True(t, r.IsEmpty())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Titles())
}

func TestVectorQuery_HasEmbedding(t *testing.T) {
	assert.False(t, VectorQuery{Text: "parody"}.HasEmbedding())
	assert.True(t, VectorQuery{Embedding: []float32{0.1}}.HasEmbedding())
}

func TestRetrievalResult_Titles_UntitledCase(t *testing.T) {
	r := RetrievalResult{Hits: []RetrievalHit{hit("", 0.9), hit("Case A", 0.5), hit("", 0.2)}}

	assert.Equal(t, []string{UnknownCaseTitle, "Case A"}, r.Titles())
}
