// Package cli implements the lexguard command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexguard/internal/core/domain"
	"github.com/custodia-labs/lexguard/internal/core/ports/driven"
	"github.com/custodia-labs/lexguard/internal/core/ports/driving"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// Annotation keys controlling what a command needs before it runs.
const (
	needsConfig   = "needs-config"
	needsServices = "needs-services"
)

// Services are the wired driving ports handed to commands.
type Services struct {
	Analysis driving.AnalysisService
	Ingest   driving.IngestService
	Settings domain.AppSettings

	// Close releases stores and provider clients.
	Close func() error
}

// ProviderStatus is the outcome of probing one provider.
type ProviderStatus struct {
	Role     string
	Provider string
	Model    string
	Err      error
}

// Bootstrapper builds dependencies lazily, once the global flags are parsed.
type Bootstrapper struct {
	// OpenConfig opens the config file at path ("" means the default).
	OpenConfig func(path string) (driven.ConfigStore, error)

	// Services wires the analysis and ingestion pipeline.
	Services func(ctx context.Context, store driven.ConfigStore) (*Services, error)

	// Providers probes every configured AI provider without fallback.
	Providers func(ctx context.Context, store driven.ConfigStore) ([]ProviderStatus, error)
}

var (
	version = "dev"
	cfgFile string
	verbose bool

	bootstrap       *Bootstrapper
	configStore     driven.ConfigStore
	analysisService driving.AnalysisService
	ingestService   driving.IngestService
	appSettings     domain.AppSettings
	closeServices   func() error
)

var rootCmd = &cobra.Command{
	Use:   "lexguard",
	Short: "Copyright risk assessment grounded in case law",
	Long: `lexguard assesses the copyright infringement risk of a creative idea.

It retrieves the most similar legal cases from a local vector store and asks
a language model for an assessment grounded in those cases. Cases are added
from CSV files, web pages, local files or by crawling a search results page.`,
	SilenceUsage:       true,
	PersistentPreRunE:  prepare,
	PersistentPostRunE: release,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default $LEXGUARD_HOME/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context, v string, b *Bootstrapper) error {
	if v != "" {
		version = v
	}
	bootstrap = b
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[needsConfig] == "" && cmd.Annotations[needsServices] == "" {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}
	if cmd.Annotations[needsServices] == "" {
		return nil
	}
	return ensureServices(cmd.Context())
}

func ensureConfig() error {
	if configStore != nil {
		return nil
	}
	if bootstrap == nil || bootstrap.OpenConfig == nil {
		return errors.New("configuration not available")
	}
	store, err := bootstrap.OpenConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store
	return nil
}

func ensureServices(ctx context.Context) error {
	if analysisService != nil && ingestService != nil {
		return nil
	}
	if bootstrap == nil || bootstrap.Services == nil {
		return errors.New("services not configured")
	}
	svc, err := bootstrap.Services(ctx, configStore)
	if err != nil {
		return err
	}
	analysisService = svc.Analysis
	ingestService = svc.Ingest
	appSettings = svc.Settings
	closeServices = svc.Close
	return nil
}

func release(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	closeFn := closeServices
	closeServices = nil
	analysisService, ingestService = nil, nil
	return closeFn()
}

func requireServices(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[needsServices] = "true"
	return cmd
}

func requireConfig(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[needsConfig] = "true"
	return cmd
}
