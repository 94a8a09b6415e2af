package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = requireServices(&cobra.Command{
	Use:   "reindex",
	Short: "Re-embed stored cases with the current embedding model",
	Long: `Recomputes vectors for cases stored under a different embedding model so
that retrieval keeps working after the embedding provider changes.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
})

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	n, err := ingestService.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	cmd.Printf("Re-embedded %d cases.\n", n)
	return nil
}
