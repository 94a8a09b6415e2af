package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyContent indicates a case had no usable text.
	ErrEmptyContent = errors.New("empty content")

	// ErrUnsupportedType indicates no normaliser handles a MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrFetchFailed indicates a case page could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrDataDirUnset indicates neither config nor environment names a data directory.
	ErrDataDirUnset = errors.New("data directory not configured")

	// ErrStoreUnavailable indicates the vector store could not be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrLLMUnavailable indicates a generation backend is not configured
	// or its credentials are missing.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates no embedding could be produced.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationExhausted indicates every candidate in the generation chain failed.
	ErrGenerationExhausted = errors.New("all generation providers failed")
)
