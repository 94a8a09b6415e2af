package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexguard/internal/logger"
)

var tuiCmd = requireServices(&cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive analysis console",
	Long: `Launch a terminal console for drafting ideas and reading assessments.

Controls:
  ctrl+s   - Analyse the idea
  ↑/k, ↓/j - Scroll the report
  esc      - Back to the idea
  n        - New idea
  f1       - Toggle help
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
})

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui crashed: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Analysis: analysisService,
		Ingest:   ingestService,
	})
	if err != nil {
		return err
	}

	// Log lines would corrupt the alt screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(cmd.ErrOrStderr())

	return app.WithContext(cmd.Context()).Run()
}
