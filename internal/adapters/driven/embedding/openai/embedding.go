// Package openai embeds case text through the OpenAI embeddings endpoint or
// any API that speaks the same protocol.
package openai

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
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModel      = "text-embedding-3-small"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 1536

	// maxInputRunes keeps a single case under the 8191 token input limit.
	maxInputRunes = 24000
)

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is required.
	APIKey string

	// BaseURL points at OpenAI or a compatible gateway.
	BaseURL string

	Model   string
	Timeout time.Duration

	// Dimensions shortens text-embedding-3-* vectors. Zero uses the model size.
	Dimensions int
}

// EmbeddingService embeds text with an OpenAI-compatible API.
type EmbeddingService struct {
	api        *httpjson.Client
	model      string
	dimensions int
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates an embedding service. A missing key is
// ErrEmbeddingUnavailable so the caller can fall back.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key is required", domain.ErrEmbeddingUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	dims := cfg.Dimensions
	if dims == 0 {
		if d, ok := modelDimensions[cfg.Model]; ok {
			dims = d
		} else {
			dims = DefaultDimensions
		}
	}

	return &EmbeddingService{
		api: httpjson.New("openai", cfg.BaseURL, cfg.Timeout).
			WithHeader("Authorization", "Bearer "+cfg.APIKey),
		model:      cfg.Model,
		dimensions: dims,
	}, nil
}

// Embed returns the vector for one case or query. OpenAI models are
// symmetric, so the purpose does not change the request.
func (s *EmbeddingService) Embed(ctx context.Context, text string, _ domain.EmbedPurpose) ([]float32, error) {
	req := embeddingRequest{Model: s.model, Input: []string{clip(text)}}
	if strings.HasPrefix(s.model, "text-embedding-3-") {
		req.Dimensions = s.dimensions
	}

	var resp embeddingResponse
	if err := s.api.Post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: %s", resp.Error.Message)
	}

	for _, d := range resp.Data {
		if d.Index != 0 || len(d.Embedding) == 0 {
			continue
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		return vec, nil
	}
	return nil, fmt.Errorf("openai: no embedding returned for %s", s.model)
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName identifies vectors produced by this service in the store.
func (s *EmbeddingService) ModelName() string {
	return "openai/" + s.model
}

// Ping lists models, which checks the key without spending tokens.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Check(ctx, "/models")
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}

func clip(text string) string {
	r := []rune(text)
	if len(r) <= maxInputRunes {
		return text
	}
	return string(r[:maxInputRunes])
}
