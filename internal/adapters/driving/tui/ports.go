// Package tui provides an interactive terminal console for assessing ideas.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/lexguard/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the console.
type Ports struct {
	// Analysis assesses ideas.
	Analysis driving.AnalysisService

	// Ingest is optional and only used to show the store size.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
