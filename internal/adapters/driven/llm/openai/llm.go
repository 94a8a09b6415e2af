// Package openai provides an LLM service adapter for the OpenAI chat
// completions API and compatible gateways such as OpenRouter.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second

	// OpenRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// LLMConfig holds configuration for the chat completions service.
type LLMConfig struct {
	// APIKey is the bearer token (required).
	APIKey string

	BaseURL string
	Model   string
	Timeout time.Duration

	// Name labels errors, e.g. "openai" or "openrouter".
	Name string

	// Headers are sent with every request.
	Headers map[string]string
}

// LLMService generates text using a chat completions endpoint.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a chat completions service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w: API key is required", cfg.Name, domain.ErrLLMUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	api := httpjson.New(cfg.Name, cfg.BaseURL, cfg.Timeout).
		WithHeader("Authorization", "Bearer "+cfg.APIKey)
	for k, v := range cfg.Headers {
		api.WithHeader(k, v)
	}
	return &LLMService{api: api, model: cfg.Model}, nil
}

// NewOpenRouterService creates a service pointed at OpenRouter, attributed
// to lexguard through the HTTP-Referer and X-Title headers.
func NewOpenRouterService(apiKey, model, baseURL string) (*LLMService, error) {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	if model == "" {
		model = domain.DefaultOpenRouter
	}
	return NewLLMService(LLMConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		Name:    "openrouter",
		Headers: map[string]string{
			"HTTP-Referer": "https://github.com/custodia-labs/lexguard",
			"X-Title":      "lexguard",
		},
	})
}

// Generate sends the prompt as a single user message.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	var resp chatResponse
	if err := s.api.Post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	// OpenRouter reports upstream failures inside a 200.
	if resp.Error != nil {
		return "", fmt.Errorf("%s: %s", s.api.Name(), resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no response choices returned", s.api.Name())
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Check(ctx, "/models")
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
