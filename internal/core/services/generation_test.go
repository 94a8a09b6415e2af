package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

func TestFallbackChain_FirstSuccessWins(t *testing.T) {
	primary := &mockLLM{model: "p", reply: "primary answer"}
	secondary := &mockLLM{model: "s", reply: "secondary answer"}
	chain := NewFallbackChain(
		driven.LLMCandidate{Name: "openrouter", Service: primary},
		driven.LLMCandidate{Name: "gemini", Service: secondary},
	)

	gen := chain.Generate(context.Background(), "prompt")

	assert.Equal(t, "primary answer", gen.Text)
	assert.Equal(t, "openrouter", gen.Provider)
	assert.False(t, gen.Degraded)
	assert.Zero(t, secondary.calls)
}

func TestFallbackChain_FallsThroughSilently(t *testing.T) {
	primary := &mockLLM{model: "p", err: errors.New("429 rate limited")}
	empty := &mockLLM{model: "e", reply: "   "}
	secondary := &mockLLM{model: "s", reply: "secondary answer"}
	chain := NewFallbackChain(
		driven.LLMCandidate{Name: "openrouter", Service: primary},
		driven.LLMCandidate{Name: "ollama", Service: empty},
		driven.LLMCandidate{Name: "gemini", Service: secondary},
	)

	gen := chain.Generate(context.Background(), "prompt")

	assert.Equal(t, "secondary answer", gen.Text)
	assert.Equal(t, "gemini", gen.Provider)
	assert.False(t, gen.Degraded)
	assert.NotContains(t, gen.Text, "429")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, []string{"prompt"}, secondary.prompts)
}

func TestFallbackChain_Exhausted(t *testing.T) {
	chain := NewFallbackChain(
		driven.LLMCandidate{Name: "openrouter", Service: &mockLLM{err: errors.New("unauthorized")}},
		driven.LLMCandidate{Name: "gemini", Service: &mockLLM{err: errors.New("quota exceeded")}},
	)

	gen := chain.Generate(context.Background(), "prompt")

	assert.True(t, gen.Degraded)
	assert.Empty(t, gen.Provider)
	assert.Equal(t, ProviderFailurePrefix+"gemini: quota exceeded", gen.Text)
}

func TestFallbackChain_Empty(t *testing.T) {
	chain := NewFallbackChain(driven.LLMCandidate{Name: "openrouter"})
	require.Zero(t, chain.Len())

	gen := chain.Generate(context.Background(), "prompt")

	assert.True(t, gen.Degraded)
	assert.Equal(t, NoProviderMessage, gen.Text)
}

func TestFallbackChain_StopsOnCancelledContext(t *testing.T) {
	llm := &mockLLM{reply: "answer"}
	chain := NewFallbackChain(driven.LLMCandidate{Name: "ollama", Service: llm})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := chain.Generate(ctx, "prompt")

	assert.True(t, gen.Degraded)
	assert.Zero(t, llm.calls)
}

func TestFallbackChain_NamesAndClose(t *testing.T) {
	a := &mockLLM{}
	b := &mockLLM{}
	chain := NewFallbackChain(
		driven.LLMCandidate{Name: "openrouter", Service: a},
		driven.LLMCandidate{Name: "ollama", Service: b},
	)

	assert.Equal(t, []string{"openrouter", "ollama"}, chain.Names())
	require.NoError(t, chain.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
