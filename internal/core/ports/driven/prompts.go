package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnalysis is the copyright risk assessment template.
	// It expects two %s placeholders: the case law context, then the idea.
	PromptAnalysis = "analysis"
)
