// Package messages defines Bubbletea message types for the analysis console.
package messages

import (
	"github.com/custodia-labs/lexguard/internal/core/domain"
)

// AnalysisRequested asks the app to analyse an idea.
type AnalysisRequested struct {
	Idea string
}

// AnalysisCompleted carries the report back to the model.
type AnalysisCompleted struct {
	Response domain.AnalysisResponse
	Err      error
}

// CaseCountLoaded reports the number of stored cases.
type CaseCountLoaded struct {
	Count int
	Err   error
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewEditor is the idea editor.
	ViewEditor ViewType = iota
	// ViewAnalysing shows progress while the pipeline runs.
	ViewAnalysing
	// ViewReport shows the last analysis.
	ViewReport
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewEditor:
		return "editor"
	case ViewAnalysing:
		return "analysing"
	case ViewReport:
		return "report"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
