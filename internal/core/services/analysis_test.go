package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

func newPipeline(store driven.VectorStore, emb driven.EmbeddingService, llms ...*mockLLM) *AnalysisService {
	var cands []driven.LLMCandidate
	for i, l := range llms {
		cands = append(cands, driven.LLMCandidate{Name: string(rune('a' + i)), Service: l})
	}
	return NewAnalysisService(
		NewRetriever(store, emb, 0),
		NewPromptComposer(nil),
		NewFallbackChain(cands...),
		domain.DefaultTopK,
	)
}

func TestAnalysisService_GroundedAnswer(t *testing.T) {
	ctx := context.Background()
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	ingest := NewIngestService(store, emb, nil, nil, nil)
	_, err := ingest.Ingest(ctx, domain.RawCase{ID: "0", Title: "Case A", Text: "A parody of a popular song was held to be fair dealing."})
	require.NoError(t, err)

	llm := &mockLLM{model: "m", reply: "Risk: Low. See Case A."}
	svc := newPipeline(store, emb, llm)

	resp, err := svc.Analyze(ctx, "funny parody of a famous song")

	require.NoError(t, err)
	assert.Equal(t, []string{"Case A"}, resp.CitedCases)
	assert.Equal(t, "Risk: Low. See Case A.", resp.Analysis)
	assert.True(t, resp.Grounded)
	assert.False(t, resp.Degraded)
	assert.Equal(t, "a", resp.Provider)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Case: Case A\nContent: A parody of a popular song")
	assert.Contains(t, llm.prompts[0], "User Idea:\nfunny parody of a famous song")
}

func TestAnalysisService_EmptyStoreUsesPlaceholder(t *testing.T) {
	emb := newMockEmbedder()
	llm := &mockLLM{reply: "general answer"}
	svc := newPipeline(memory.NewVectorStore(emb), emb, llm)

	resp, err := svc.Analyze(context.Background(), "a new comic book hero")

	require.NoError(t, err)
	assert.Equal(t, []string{domain.PlaceholderCitation}, resp.CitedCases)
	assert.False(t, resp.Grounded)
	assert.Contains(t, llm.prompts[0], domain.NoCaseLawContext)
}

func TestAnalysisService_EmbeddingFailureStillAnswers(t *testing.T) {
	ctx := context.Background()
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	seedStore(t, store, caseChunk("1", "Case A", "parody song"))
	emb.embedErr = errors.New("quota")

	resp, err := newPipeline(store, emb, &mockLLM{reply: "answer"}).Analyze(ctx, "parody song")

	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Analysis)
	assert.Equal(t, []string{"General Legal Principles"}, resp.CitedCases)
}

func TestAnalysisService_GenerationFailureIsAValue(t *testing.T) {
	emb := newMockEmbedder()
	svc := newPipeline(memory.NewVectorStore(emb), emb, &mockLLM{err: errors.New("boom")})

	resp, err := svc.Analyze(context.Background(), "idea")

	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Equal(t, ProviderFailurePrefix+"a: boom", resp.Analysis)
}

func TestAnalysisService_NoProviders(t *testing.T) {
	emb := newMockEmbedder()
	resp, err := newPipeline(memory.NewVectorStore(emb), emb).Analyze(context.Background(), "idea")

	require.NoError(t, err)
	assert.Equal(t, NoProviderMessage, resp.Analysis)
	assert.NotEmpty(t, resp.CitedCases)
}

func TestAnalysisService_RejectsEmptyIdea(t *testing.T) {
	emb := newMockEmbedder()
	svc := newPipeline(memory.NewVectorStore(emb), emb, &mockLLM{reply: "x"})

	_, err := svc.Analyze(context.Background(), "  \n ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalysisService_ConcurrentRequests(t *testing.T) {
	emb := newMockEmbedder()
	store := memory.NewVectorStore(emb)
	seedStore(t, store, caseChunk("1", "Case A", "parody song"))
	svc := NewAnalysisService(
		NewRetriever(store, emb, 0),
		NewPromptComposer(nil),
		NewFallbackChain(),
		0,
	)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Analyze(context.Background(), "parody")
			assert.NoError(t, err)
			assert.Equal(t, []string{"Case A"}, resp.CitedCases)
		}()
	}
	wg.Wait()
}
