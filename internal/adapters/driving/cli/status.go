package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = requireServices(&cobra.Command{
	Use:   "status",
	Short: "Show the store and provider configuration",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
})

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	n, err := ingestService.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("counting cases: %w", err)
	}

	chain := make([]string, 0, len(appSettings.LLMChain))
	for _, l := range appSettings.LLMChain {
		chain = append(chain, string(l.Provider))
	}

	cmd.Printf("Data dir:   %s\n", appSettings.DataDir)
	cmd.Printf("Store:      %s (%s)\n", appSettings.Store.Backend, appSettings.Store.Collection)
	cmd.Printf("Cases:      %d\n", n)
	cmd.Printf("Embedding:  %s\n", appSettings.Embedding.Provider)
	cmd.Printf("LLM chain:  %s\n", strings.Join(chain, " -> "))
	cmd.Printf("Top K:      %d\n", appSettings.TopK)
	return nil
}
