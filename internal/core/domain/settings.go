package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google's Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenRouter is the OpenRouter gateway (OpenAI-compatible).
	AIProviderOpenRouter AIProvider = "openrouter"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic,
		AIProviderGemini, AIProviderOpenRouter, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderOpenRouter:
		return true
	default:
		return false
	}
}

// APIKeyEnv returns the environment variable holding this provider's key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGemini:
		return "GOOGLE_API_KEY"
	case AIProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderOpenRouter:
		return "OpenRouter (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible APIs).
	BaseURL string

	// APIKey is read from the provider's environment variable.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds configuration for one generation backend.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is read from the provider's environment variable.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StoreBackend selects the vector store implementation.
type StoreBackend string

// Available store backends.
const (
	StoreSQLite StoreBackend = "sqlite"
	StoreChroma StoreBackend = "chroma"
	StoreMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	return b == StoreSQLite || b == StoreChroma || b == StoreMemory
}

// StoreSettings configures persistence.
type StoreSettings struct {
	Backend    StoreBackend
	Collection string
	ChromaURL  string
}

// IngestSettings configures the ingestion path.
type IngestSettings struct {
	// MaxChars is the per-case storage cap.
	MaxChars int

	// Delay is the politeness gap between remote fetches.
	Delay time.Duration
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Addr        string
	CORSOrigins []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir is the absolute, resolved root for all persisted state.
	DataDir string

	Store     StoreSettings
	Ingest    IngestSettings
	TopK      int
	Embedding EmbeddingSettings

	// LLMChain is the ordered list of generation candidates.
	LLMChain []LLMSettings

	Server ServerSettings
}

// Default setting values.
const (
	DefaultCollection = "legal_cases"
	DefaultFetchDelay = 2 * time.Second
	DefaultServerAddr = ":8000"
	DefaultOpenRouter = "nvidia/nemotron-nano-12b-v2-vl:free"
)

// DefaultLLMChain is the generation order used when none is configured.
var DefaultLLMChain = []AIProvider{AIProviderOpenRouter, AIProviderGemini, AIProviderOllama}

// DefaultAppSettings returns settings with sensible defaults.
// DataDir is left empty: it must be configured explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Store: StoreSettings{
			Backend:    StoreSQLite,
			Collection: DefaultCollection,
		},
		Ingest: IngestSettings{
			MaxChars: DefaultMaxChars,
			Delay:    DefaultFetchDelay,
		},
		TopK: DefaultTopK,
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
		},
		Server: ServerSettings{
			Addr:        DefaultServerAddr,
			CORSOrigins: []string{"*"},
		},
	}
}
