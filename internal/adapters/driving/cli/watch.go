package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/watcher"
)

var (
	watchScan     bool
	watchDebounce = watcher.DefaultDebounce
)

var watchCmd = requireServices(&cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest case files as they appear in a directory",
	Long: `Watches a directory tree and ingests text, markdown, HTML and PDF files when
they are created or modified. Hidden files and directories are ignored.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
})

func init() {
	watchCmd.Flags().BoolVar(&watchScan, "scan", true, "ingest files already present before watching")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a changed file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	w := watcher.New(ingestService, args[0], watcher.Config{
		Debounce:    watchDebounce,
		InitialScan: watchScan,
	})
	cmd.Printf("Watching %s (ctrl+c to stop)\n", args[0])
	return w.Run(cmd.Context())
}
