// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/lexguard/internal/adapters/driven/embedding/gemini"
	"github.com/custodia-labs/lexguard/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/lexguard/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/lexguard/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/lexguard/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/lexguard/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/lexguard/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/lexguard/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	// Embedding is never nil: it falls back to the hashing embedder.
	Embedding driven.EmbeddingService

	// Chain is the ordered generation chain. It may be empty.
	Chain []driven.LLMCandidate

	Warnings []string // Non-fatal issues that caused fallback.
	FellBack bool     // True if the configured embedder was replaced.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Embedding != nil {
		r.Embedding.Close()
	}
	for _, c := range r.Chain {
		c.Service.Close()
	}
}

// Initialise builds the process-wide embedder and the generation chain.
// Nothing here fails startup: problems are returned as warnings and logged.
func Initialise(ctx context.Context, settings domain.AppSettings) *InitResult {
	result := &InitResult{}

	embedder, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		result.warn("embedding: %v; using offline hashing embedder", err)
		result.FellBack = true
		embedder = hashing.NewEmbeddingService(0)
	}
	result.Embedding = embedder

	chain, warnings := BuildLLMChain(ctx, settings.LLMChain)
	result.Chain = chain
	for _, w := range warnings {
		result.warn("%s", w)
	}
	if len(chain) == 0 {
		result.warn("llm: no generation provider configured")
	}
	return result
}

func (r *InitResult) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w)",
			domain.ErrEmbeddingUnavailable, settings.Provider, err)
	}

	logger.Debug("embedding: using %s", svc.ModelName())
	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || settings.Provider == "" {
		return nil, fmt.Errorf("no embedding provider configured")
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%s requires %s", settings.Provider, settings.Provider.APIKeyEnv())
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(0), nil

	case domain.AIProviderAnthropic, domain.AIProviderOpenRouter:
		return nil, fmt.Errorf("%s does not support embeddings, use gemini, openai, ollama or hashing",
			settings.Provider)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// BuildLLMChain creates one candidate per configured backend, preserving
// order. Backends that cannot be created are skipped with a warning.
// Backends are not pinged: a cold provider should not cost a startup
// request, and the chain already falls through on failure.
func BuildLLMChain(ctx context.Context, chain []domain.LLMSettings) ([]driven.LLMCandidate, []string) {
	var (
		candidates []driven.LLMCandidate
		warnings   []string
	)
	for i := range chain {
		settings := &chain[i]
		if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
			warnings = append(warnings, fmt.Sprintf("llm: skipping %s, %s is not set",
				settings.Provider, settings.Provider.APIKeyEnv()))
			continue
		}
		svc, err := CreateLLMService(ctx, settings)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("llm: skipping %s: %v", settings.Provider, err))
			continue
		}
		candidates = append(candidates, driven.LLMCandidate{
			Name:    settings.Provider.String(),
			Service: svc,
		})
	}
	return candidates, warnings
}

// CreateLLMService creates the appropriate LLM service based on settings.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider not configured", domain.ErrLLMUnavailable)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenRouter:
		return openaillm.NewOpenRouterService(settings.APIKey, settings.Model, settings.BaseURL)

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
