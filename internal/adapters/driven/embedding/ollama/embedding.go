// Package ollama embeds case text with a local Ollama embedding model.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768
)

// Task prefixes expected by nomic-embed-text.
const (
	queryPrefix    = "search_query: "
	documentPrefix = "search_document: "
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions is the model's vector size (768 for nomic-embed-text).
	Dimensions int
}

// EmbeddingService embeds text with Ollama.
type EmbeddingService struct {
	api        *httpjson.Client
	model      string
	dimensions int
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewEmbeddingService creates an Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		api:        httpjson.New("ollama", cfg.BaseURL, cfg.Timeout),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed returns the vector for a case or query. nomic models get their task
// prefix so queries and documents land in the intended space.
func (s *EmbeddingService) Embed(ctx context.Context, text string, purpose domain.EmbedPurpose) ([]float32, error) {
	var resp embedResponse
	req := embedRequest{Model: s.model, Prompt: s.withPrefix(text, purpose)}
	if err := s.api.Post(ctx, "/api/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama: empty embedding for model %s", s.model)
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

func (s *EmbeddingService) withPrefix(text string, purpose domain.EmbedPurpose) string {
	if !strings.HasPrefix(s.model, "nomic-embed") {
		return text
	}
	if purpose == domain.PurposeQuery {
		return queryPrefix + text
	}
	return documentPrefix + text
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName identifies vectors produced by this service in the store.
func (s *EmbeddingService) ModelName() string {
	return "ollama/" + s.model
}

// Ping lists local models, which checks the daemon is up.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Check(ctx, "/api/tags")
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
