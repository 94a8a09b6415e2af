package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// ProviderStatus is the outcome of probing one configured provider.
type ProviderStatus struct {
	Role     string // "embedding" or "llm"
	Provider domain.AIProvider
	Model    string
	Err      error
}

// OK reports whether the provider answered.
func (s ProviderStatus) OK() bool {
	return s.Err == nil
}

// ConfigValidator pings every configured provider without falling back.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) ProviderStatus {
	status := ProviderStatus{Role: "embedding"}
	if settings == nil {
		status.Err = fmt.Errorf("%w: no settings", domain.ErrEmbeddingUnavailable)
		return status
	}
	status.Provider = settings.Provider
	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil {
		status.Err = err
		return status
	}
	defer svc.Close()
	status.Model = svc.ModelName()
	return status
}

// ValidateLLM creates an LLM backend and pings it.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, settings *domain.LLMSettings) ProviderStatus {
	status := ProviderStatus{Role: "llm"}
	if settings != nil {
		status.Provider = settings.Provider
	}
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		status.Err = err
		return status
	}
	defer svc.Close()
	status.Model = svc.ModelName()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(pingCtx); err != nil {
		status.Err = fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return status
}

// ValidateAll probes the embedder and then every chain entry in order.
func (v *ConfigValidator) ValidateAll(ctx context.Context, settings domain.AppSettings) []ProviderStatus {
	statuses := []ProviderStatus{v.ValidateEmbedding(ctx, &settings.Embedding)}
	for i := range settings.LLMChain {
		statuses = append(statuses, v.ValidateLLM(ctx, &settings.LLMChain[i]))
	}
	return statuses
}
