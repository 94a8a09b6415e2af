package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexguard/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexguard/internal/adapters/driven/fetch/web"
	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/chroma"
	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexguard/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/core/services"
	"github.com/custodia-labs/lexguard/internal/logger"
	"github.com/custodia-labs/lexguard/internal/normalisers"
)

func openConfig(path string) (driven.ConfigStore, error) {
	return file.NewConfigStore(path)
}

// buildServices wires the pipeline from settings. Provider problems degrade
// to warnings; only an unusable store or data directory is fatal.
func buildServices(ctx context.Context, store driven.ConfigStore) (*cli.Services, error) {
	settings, err := file.LoadSettings(store, os.Getenv)
	if err != nil {
		return nil, err
	}

	providers := ai.Initialise(ctx, settings)

	vectors, err := openStore(ctx, settings, providers.Embedding)
	if err != nil {
		providers.Close()
		return nil, err
	}
	if providers.FellBack {
		logger.Warn("cases stored with another embedding model are skipped until you run 'lexguard reindex'")
	}

	prompts, err := file.NewPromptStore(filepath.Join(settings.DataDir, "prompts"))
	if err != nil {
		vectors.Close()
		providers.Close()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	chain := services.NewFallbackChain(providers.Chain...)
	analysis := services.NewAnalysisService(
		services.NewRetriever(vectors, providers.Embedding, settings.Ingest.MaxChars),
		services.NewPromptComposer(prompts),
		chain,
		settings.TopK,
	)
	ingest := services.NewIngestService(
		vectors,
		providers.Embedding,
		services.NewNormalizer(settings.Ingest.MaxChars),
		normalisers.Default(),
		web.NewFetcher(web.Config{Delay: settings.Ingest.Delay}),
	)

	return &cli.Services{
		Analysis: analysis,
		Ingest:   ingest,
		Settings: settings,
		Close: func() error {
			return errors.Join(
				vectors.Close(),
				chain.Close(),
				providers.Embedding.Close(),
			)
		},
	}, nil
}

func openStore(ctx context.Context, settings domain.AppSettings, embedder driven.EmbeddingService) (driven.VectorStore, error) {
	switch settings.Store.Backend {
	case domain.StoreChroma:
		return chroma.NewStore(ctx, settings.Store.ChromaURL, settings.Store.Collection, embedder)
	case domain.StoreMemory:
		logger.Warn("store: memory backend selected, cases are lost on exit")
		return memory.NewVectorStore(embedder), nil
	case domain.StoreSQLite, "":
		return sqlite.NewStore(settings.DataDir, settings.Store.Collection, embedder)
	default:
		return nil, fmt.Errorf("%w: store backend %q", domain.ErrInvalidInput, settings.Store.Backend)
	}
}

func checkProviders(ctx context.Context, store driven.ConfigStore) ([]cli.ProviderStatus, error) {
	settings, err := file.LoadSettings(store, os.Getenv)
	if err != nil {
		return nil, err
	}

	results := ai.NewConfigValidator().ValidateAll(ctx, settings)
	statuses := make([]cli.ProviderStatus, len(results))
	for i, r := range results {
		statuses[i] = cli.ProviderStatus{
			Role:     r.Role,
			Provider: string(r.Provider),
			Model:    r.Model,
			Err:      r.Err,
		}
	}
	return statuses, nil
}
