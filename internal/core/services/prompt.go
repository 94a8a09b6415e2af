package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// PromptComposer builds the grounded analysis prompt.
type PromptComposer struct {
	prompts driven.PromptStore
}

// NewPromptComposer creates a composer. A nil store uses the built-in template.
func NewPromptComposer(prompts driven.PromptStore) *PromptComposer {
	return &PromptComposer{prompts: prompts}
}

// Compose renders the template with the retrieved context and the idea.
// The model's answer format is not validated anywhere.
func (c *PromptComposer) Compose(query string, result domain.RetrievalResult) string {
	return fmt.Sprintf(c.template(), CaseLawContext(result), strings.TrimSpace(query))
}

// CaseLawContext renders retrieved cases, or the no-case-law notice when
// nothing was retrieved.
func CaseLawContext(result domain.RetrievalResult) string {
	if result.IsEmpty() {
		return domain.NoCaseLawContext
	}
	var b strings.Builder
	for _, hit := range result.Hits {
		fmt.Fprintf(&b, "\nCase: %s\nContent: %s...\n", hit.Chunk.DisplayTitle(), hit.Chunk.Content)
	}
	return b.String()
}

// template loads the user-editable template, falling back to the built-in
// one when it is missing or lacks its two placeholders.
func (c *PromptComposer) template() string {
	if c.prompts == nil {
		return domain.DefaultAnalysisPrompt
	}
	tmpl, err := c.prompts.Load(driven.PromptAnalysis)
	if err != nil {
		logger.Warn("prompt: loading %q failed: %v", driven.PromptAnalysis, err)
		return domain.DefaultAnalysisPrompt
	}
	if !validTemplate(tmpl) {
		logger.Warn("prompt: %q must contain exactly two %%s placeholders, using built-in template", driven.PromptAnalysis)
		return domain.DefaultAnalysisPrompt
	}
	return tmpl
}

func validTemplate(tmpl string) bool {
	stripped := strings.ReplaceAll(tmpl, "%%", "")
	return strings.Count(stripped, "%s") == 2 && strings.Count(stripped, "%") == 2
}
