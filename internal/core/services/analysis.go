package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driving"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService runs one idea through retrieval, composition and
// generation. It holds no per-request state, so a single instance serves
// concurrent callers.
type AnalysisService struct {
	retriever *Retriever
	composer  *PromptComposer
	generator *FallbackChain
	topK      int
}

// NewAnalysisService creates the query pipeline.
func NewAnalysisService(
	retriever *Retriever,
	composer *PromptComposer,
	generator *FallbackChain,
	topK int,
) *AnalysisService {
	if topK < 1 {
		topK = domain.DefaultTopK
	}
	return &AnalysisService{
		retriever: retriever,
		composer:  composer,
		generator: generator,
		topK:      topK,
	}
}

// Analyze assesses an idea. Every stage substitutes a degraded value on
// failure and the pipeline always reaches DONE.
func (s *AnalysisService) Analyze(ctx context.Context, idea string) (domain.AnalysisResponse, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return domain.AnalysisResponse{}, domain.ErrInvalidInput
	}

	logger.Section("Analysis")
	logger.Debug("Idea: %q", idea)

	stage(domain.StageRetrieving)
	result := s.retriever.Retrieve(ctx, idea, s.topK)

	stage(domain.StageComposing)
	prompt := s.composer.Compose(idea, result)

	stage(domain.StageGenerating)
	gen := s.generator.Generate(ctx, prompt)

	stage(domain.StageDone)

	cited := result.Titles()
	if len(cited) == 0 {
		cited = []string{domain.PlaceholderCitation}
	}

	return domain.AnalysisResponse{
		Analysis:   gen.Text,
		CitedCases: cited,
		Grounded:   !result.IsEmpty(),
		Degraded:   gen.Degraded,
		Provider:   gen.Provider,
	}, nil
}

func stage(s domain.PipelineStage) {
	logger.Debug("stage: %s", s)
}
