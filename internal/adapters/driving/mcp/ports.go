package mcp

import (
	"github.com/custodia-labs/lexguard/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Analysis assesses ideas against stored case law.
	Analysis driving.AnalysisService

	// Ingest adds cases. Optional; ingestion tools are omitted without it.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
