package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// ollamaServer answers the tags endpoint used as ping.
func ollamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantModel   string
		errContains string
	}{
		{
			name:        "nil settings",
			settings:    nil,
			errContains: "no embedding provider",
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				Model:    "nomic-embed-text",
			},
			wantModel: "ollama/nomic-embed-text",
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
			},
			wantModel: "openai/text-embedding-3-small",
		},
		{
			name:      "hashing provider creates service",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderHashing},
			wantModel: "hashing-512",
		},
		{
			name:        "gemini without key",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderGemini},
			errContains: "GOOGLE_API_KEY",
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			errContains: "anthropic does not support embeddings",
		},
		{
			name:        "unknown provider",
			settings:    &domain.EmbeddingSettings{Provider: "unknown"},
			errContains: "requires",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)

			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	_, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  down.URL,
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantModel string
		wantErr   bool
	}{
		{name: "nil settings", settings: nil, wantErr: true},
		{name: "unconfigured settings", settings: &domain.LLMSettings{}, wantErr: true},
		{
			name:      "ollama provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "openrouter uses default free model",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenRouter, APIKey: "k"},
			wantModel: domain.DefaultOpenRouter,
		},
		{
			name:      "anthropic provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantModel: "claude-3-5-haiku-latest",
		},
		{
			name:      "gemini provider creates service",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "k"},
			wantModel: "gemini-2.5-flash",
		},
		{
			name:     "hashing cannot generate",
			settings: &domain.LLMSettings{Provider: domain.AIProviderHashing},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestBuildLLMChain_SkipsMissingCredentials(t *testing.T) {
	chain, warnings := BuildLLMChain(context.Background(), []domain.LLMSettings{
		{Provider: domain.AIProviderOpenRouter},
		{Provider: domain.AIProviderGemini, APIKey: "k"},
		{Provider: domain.AIProviderOllama},
	})

	require.Len(t, chain, 2)
	assert.Equal(t, "gemini", chain[0].Name)
	assert.Equal(t, "ollama", chain[1].Name)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "OPENROUTER_API_KEY")
}

func TestInitialise(t *testing.T) {
	t.Run("uses reachable embedder", func(t *testing.T) {
		server := ollamaServer(t)
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}
		settings.LLMChain = []domain.LLMSettings{{Provider: domain.AIProviderOllama, BaseURL: server.URL}}

		result := Initialise(context.Background(), settings)
		defer result.Close()

		assert.False(t, result.FellBack)
		assert.Equal(t, "ollama/nomic-embed-text", result.Embedding.ModelName())
		assert.Len(t, result.Chain, 1)
		assert.Empty(t, result.Warnings)
	})

	t.Run("falls back to hashing without key", func(t *testing.T) {
		settings := domain.DefaultAppSettings()

		result := Initialise(context.Background(), settings)
		defer result.Close()

		assert.True(t, result.FellBack)
		assert.Equal(t, "hashing-512", result.Embedding.ModelName())
		assert.Empty(t, result.Chain)
		assert.Len(t, result.Warnings, 2)
	})
}
