// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The query path is Retriever, PromptComposer, then FallbackChain, sequenced
// by AnalysisService. The ingestion path is Normalizer, EmbeddingService, then
// VectorStore, sequenced by IngestService.
//
// Services are pure Go with no external dependencies.
package services
