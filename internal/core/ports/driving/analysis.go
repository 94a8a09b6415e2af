package driving

import (
	"context"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// AnalysisService assesses the copyright risk of an idea.
type AnalysisService interface {
	// Analyze always produces a response for a non-empty idea, degrading
	// when retrieval or generation fails. The only error is
	// domain.ErrInvalidInput for an empty idea.
	Analyze(ctx context.Context, idea string) (domain.AnalysisResponse, error)
}
