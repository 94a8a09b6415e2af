// Package domain defines the core business entities for lexguard.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawCase: Case text supplied by an ingestion collaborator
//   - StoredChunk: The bounded, embedded unit persisted per case
//   - RetrievalResult: Ranked chunks returned for a query
//   - AnalysisResponse: The risk assessment handed back to callers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
