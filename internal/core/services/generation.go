package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// User-facing messages returned in place of an analysis.
const (
	NoProviderMessage     = "Error: AI provider configuration missing (Key not found)."
	ProviderFailurePrefix = "Error from AI Provider: "
)

// FallbackChain runs a prompt against an ordered list of generation
// backends. Each candidate is tried once; the first non-empty answer wins.
// Individual failures are logged, never returned.
type FallbackChain struct {
	candidates []driven.LLMCandidate
	opts       driven.GenerateOptions
}

// NewFallbackChain creates a chain. Candidates with a nil service are dropped.
func NewFallbackChain(candidates ...driven.LLMCandidate) *FallbackChain {
	c := &FallbackChain{}
	for _, cand := range candidates {
		if cand.Service == nil {
			continue
		}
		c.candidates = append(c.candidates, cand)
	}
	return c
}

// SetOptions overrides the generation options passed to every backend.
func (c *FallbackChain) SetOptions(opts driven.GenerateOptions) {
	c.opts = opts
}

// Names returns the candidate names in order.
func (c *FallbackChain) Names() []string {
	names := make([]string, len(c.candidates))
	for i, cand := range c.candidates {
		names[i] = cand.Name
	}
	return names
}

// Len returns the number of usable candidates.
func (c *FallbackChain) Len() int {
	return len(c.candidates)
}

// Generate returns the first successful answer. When the chain is empty or
// exhausted the result is Degraded and Text holds a message for the user.
func (c *FallbackChain) Generate(ctx context.Context, prompt string) domain.Generation {
	if len(c.candidates) == 0 {
		logger.Warn("generation: no provider configured")
		return domain.Generation{Text: NoProviderMessage, Degraded: true}
	}

	var errs []error
	for _, cand := range c.candidates {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		text, err := cand.Service.Generate(ctx, prompt, c.opts)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("empty response")
		}
		if err != nil {
			logger.Warn("generation: %s (%s) failed: %v", cand.Name, cand.Service.ModelName(), err)
			errs = append(errs, fmt.Errorf("%s: %w", cand.Name, err))
			continue
		}

		logger.Debug("generation: answered by %s (%s)", cand.Name, cand.Service.ModelName())
		return domain.Generation{Text: text, Provider: cand.Name}
	}

	err := fmt.Errorf("%w: %w", domain.ErrGenerationExhausted, errors.Join(errs...))
	logger.Warn("generation: %v", err)
	return domain.Generation{
		Text:     ProviderFailurePrefix + errs[len(errs)-1].Error(),
		Degraded: true,
	}
}

// Close releases every backend.
func (c *FallbackChain) Close() error {
	var errs []error
	for _, cand := range c.candidates {
		if err := cand.Service.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cand.Name, err))
		}
	}
	return errors.Join(errs...)
}
