// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorStore: Chunk persistence and similarity search
//   - EmbeddingService: Text to vector conversion
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Without any, analysis returns a failure message instead of an answer.
//   - CaseFetcher: Without it, URL ingestion and crawling are disabled.
//   - PromptStore: Without it, built-in prompt templates are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
