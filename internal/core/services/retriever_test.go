package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexguard/internal/core/domain"
)

func seedStore(t *testing.T, store *memory.VectorStore, chunks ...domain.StoredChunk) {
	t.Helper()
	for _, c := range chunks {
		_, err := store.Upsert(context.Background(), c)
		require.NoError(t, err)
	}
}

func caseChunk(id, title, text string) domain.StoredChunk {
	return domain.StoredChunk{ID: id, Content: text, Metadata: domain.CaseMetadata{Title: title}}
}

func TestRetriever_RanksAndCaps(t *testing.T) {
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	seedStore(t, store,
		caseChunk("1", "Film case", "film film trademark"),
		caseChunk("2", "Parody case", "parody song parody"),
		caseChunk("3", "Music case", "music song"),
		caseChunk("4", "Other", "trademark"),
	)
	r := NewRetriever(store, emb, 0)

	result := r.Retrieve(context.Background(), "funny parody of a famous song", 2)

	assert.Equal(t, []string{"Parody case", "Music case"}, result.Titles())
	assert.Contains(t, emb.purposes, domain.PurposeQuery)
}

func TestRetriever_DefaultsK(t *testing.T) {
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	for i, title := range []string{"A", "B", "C", "D", "E"} {
		seedStore(t, store, caseChunk(string(rune('a'+i)), title, "parody"))
	}

	result := NewRetriever(store, emb, 0).Retrieve(context.Background(), "parody", 0)

	assert.Equal(t, domain.DefaultTopK, result.Len())
}

func TestRetriever_EmbeddingFailureYieldsEmpty(t *testing.T) {
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	seedStore(t, store, caseChunk("1", "Case A", "parody song"))
	emb.embedErr = errors.New("quota exceeded")

	result := NewRetriever(store, emb, 0).Retrieve(context.Background(), "parody", 3)

	assert.True(t, result.IsEmpty())
}

func TestRetriever_EmptyInputs(t *testing.T) {
	emb := newMockEmbedder()

	assert.True(t, NewRetriever(memory.NewVectorStore(emb), emb, 0).Retrieve(context.Background(), "parody", 3).IsEmpty())
	assert.True(t, NewRetriever(memory.NewVectorStore(emb), emb, 0).Retrieve(context.Background(), "   ", 3).IsEmpty())
	assert.True(t, NewRetriever(nil, emb, 0).Retrieve(context.Background(), "parody", 3).IsEmpty())
}

func TestRetriever_WithoutEmbedderDelegatesToStore(t *testing.T) {
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	seedStore(t, store, caseChunk("1", "Case A", "parody song"))

	result := NewRetriever(store, nil, 0).Retrieve(context.Background(), "parody", 3)

	assert.Equal(t, []string{"Case A"}, result.Titles())
}

func TestRetriever_TruncatesSnippets(t *testing.T) {
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	seedStore(t, store, caseChunk("1", "Case A", "parody "+strings.Repeat("z", 100)))

	result := NewRetriever(store, emb, 10).Retrieve(context.Background(), "parody", 1)

	require.Equal(t, 1, result.Len())
	assert.Equal(t, "parody zzz", result.Hits[0].Chunk.Content)
}
