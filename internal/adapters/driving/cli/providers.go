package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var providersCmd = requireConfig(&cobra.Command{
	Use:   "providers",
	Short: "Check connectivity to the configured AI providers",
	Long: `Pings the embedding provider and every model in the LLM chain and reports
which ones answered. Unlike normal startup, nothing falls back.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
})

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	if bootstrap == nil || bootstrap.Providers == nil {
		return errors.New("provider checks not configured")
	}

	statuses, err := bootstrap.Providers(cmd.Context(), configStore)
	if err != nil {
		return err
	}

	failed := 0
	for _, s := range statuses {
		model := s.Model
		if model == "" {
			model = "-"
		}
		if s.Err != nil {
			failed++
			cmd.Printf("  FAIL  %-9s %-10s %s: %v\n", s.Role, s.Provider, model, s.Err)
			continue
		}
		cmd.Printf("  OK    %-9s %-10s %s\n", s.Role, s.Provider, model)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d providers unavailable", failed, len(statuses))
	}
	return nil
}
