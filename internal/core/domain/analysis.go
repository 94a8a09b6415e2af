package domain

// PlaceholderCitation is cited when no case law was retrieved.
const PlaceholderCitation = "General Legal Principles"

// PipelineStage names a step of a single analysis request.
type PipelineStage string

// Analysis pipeline stages, in order.
const (
	StageRetrieving PipelineStage = "RETRIEVING"
	StageComposing  PipelineStage = "COMPOSING"
	StageGenerating PipelineStage = "GENERATING"
	StageDone       PipelineStage = "DONE"
)

// Generation is the outcome of running a prompt through the provider chain.
type Generation struct {
	// Text is the model output, or a user-facing failure message when
	// Degraded is true.
	Text string

	// Provider names the backend that answered. Empty when degraded.
	Provider string

	// Degraded is true when every candidate failed or none was configured.
	Degraded bool
}

// AnalysisResponse is returned for every analysed idea.
type AnalysisResponse struct {
	Analysis string `json:"analysis"`

	// CitedCases always has at least one entry.
	CitedCases []string `json:"cited_cases"`

	// Grounded is false when no case law was retrieved.
	Grounded bool `json:"grounded"`

	// Degraded is true when generation fell back to a failure message.
	Degraded bool `json:"degraded"`

	// Provider names the generation backend that answered.
	Provider string `json:"provider,omitempty"`
}

// IngestStatus reports what happened to a single case.
type IngestStatus string

// Ingest outcomes.
const (
	IngestStored         IngestStatus = "stored"
	IngestAlreadyIndexed IngestStatus = "already_indexed"
)

// IngestReport summarises a batch ingestion.
type IngestReport struct {
	Stored  int        `json:"stored"`
	Skipped int        `json:"skipped"`
	Failed  int        `json:"failed"`
	Cases   []CaseLink `json:"cases,omitempty"`
}

// Add records a single outcome.
func (r *IngestReport) Add(status IngestStatus, err error) {
	switch {
	case err != nil:
		r.Failed++
	case status == IngestAlreadyIndexed:
		r.Skipped++
	default:
		r.Stored++
	}
}
