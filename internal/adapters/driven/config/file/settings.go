package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// DataDirEnv names the data directory when the config file does not.
const DataDirEnv = "LEXGUARD_DATA_DIR"

// Config keys.
const (
	KeyDataDir          = "data_dir"
	KeyStoreBackend     = "store.backend"
	KeyStoreCollection  = "store.collection"
	KeyChromaURL        = "chroma.url"
	KeyIngestMaxChars   = "ingest.max_chars"
	KeyIngestDelay      = "ingest.delay"
	KeyRetrievalTopK    = "retrieval.top_k"
	KeyEmbeddingProv    = "embedding.provider"
	KeyEmbeddingModel   = "embedding.model"
	KeyEmbeddingBaseURL = "embedding.base_url"
	KeyLLMChain         = "llm.chain"
	KeyServerAddr       = "server.addr"
	KeyServerCORS       = "server.cors_origins"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Existing variables win and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil {
			logger.Debug("config: loaded %s", p)
			continue
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", p, err)
	}
	return nil
}

// LoadSettings resolves application settings from the config store and the
// environment. getenv is os.Getenv outside tests.
func LoadSettings(store driven.ConfigStore, getenv func(string) string) (domain.AppSettings, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	s := domain.DefaultAppSettings()

	dataDir, err := resolveDataDir(store, getenv)
	if err != nil {
		return s, err
	}
	s.DataDir = dataDir

	if v := store.GetString(KeyStoreBackend); v != "" {
		backend := domain.StoreBackend(strings.ToLower(v))
		if !backend.IsValid() {
			return s, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, KeyStoreBackend, v)
		}
		s.Store.Backend = backend
	}
	if v := store.GetString(KeyStoreCollection); v != "" {
		s.Store.Collection = v
	}
	s.Store.ChromaURL = firstNonEmpty(getenv("CHROMA_URL"), store.GetString(KeyChromaURL))

	if v := store.GetInt(KeyIngestMaxChars); v > 0 {
		s.Ingest.MaxChars = v
	}
	if d, ok := store.GetDuration(KeyIngestDelay); ok && d >= 0 {
		s.Ingest.Delay = d
	}
	if v := store.GetInt(KeyRetrievalTopK); v > 0 {
		s.TopK = v
	}

	if v := store.GetString(KeyEmbeddingProv); v != "" {
		s.Embedding.Provider = domain.AIProvider(strings.ToLower(v))
	}
	s.Embedding.Model = store.GetString(KeyEmbeddingModel)
	s.Embedding.BaseURL = store.GetString(KeyEmbeddingBaseURL)
	s.Embedding.APIKey = apiKey(s.Embedding.Provider, getenv)

	chain := store.GetStringSlice(KeyLLMChain)
	if len(chain) == 0 {
		for _, p := range domain.DefaultLLMChain {
			chain = append(chain, p.String())
		}
	}
	for _, name := range chain {
		provider := domain.AIProvider(strings.ToLower(strings.TrimSpace(name)))
		if !provider.IsValid() || provider == domain.AIProviderHashing {
			logger.Warn("config: ignoring unknown llm provider %q in %s", name, KeyLLMChain)
			continue
		}
		s.LLMChain = append(s.LLMChain, domain.LLMSettings{
			Provider: provider,
			Model:    store.GetString("llm." + provider.String() + ".model"),
			BaseURL:  store.GetString("llm." + provider.String() + ".base_url"),
			APIKey:   apiKey(provider, getenv),
		})
	}

	if v := store.GetString(KeyServerAddr); v != "" {
		s.Server.Addr = v
	}
	if v := store.GetStringSlice(KeyServerCORS); len(v) > 0 {
		s.Server.CORSOrigins = v
	}

	return s, nil
}

// resolveDataDir returns an absolute data directory. The environment wins
// over the config file; a relative config value is taken relative to the
// config file.
func resolveDataDir(store driven.ConfigStore, getenv func(string) string) (string, error) {
	if v := getenv(DataDirEnv); v != "" {
		return filepath.Abs(v)
	}
	v := store.GetString(KeyDataDir)
	if v == "" {
		return "", fmt.Errorf("%w: set %s in %s or %s", domain.ErrDataDirUnset, KeyDataDir, store.Path(), DataDirEnv)
	}
	if strings.HasPrefix(v, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", v, err)
		}
		v = filepath.Join(home, v[2:])
	}
	if !filepath.IsAbs(v) {
		v = filepath.Join(filepath.Dir(store.Path()), v)
	}
	return filepath.Abs(v)
}

func apiKey(p domain.AIProvider, getenv func(string) string) string {
	env := p.APIKeyEnv()
	if env == "" {
		return ""
	}
	key := getenv(env)
	if key == "" && p == domain.AIProviderGemini {
		key = getenv("GEMINI_API_KEY")
	}
	return key
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
