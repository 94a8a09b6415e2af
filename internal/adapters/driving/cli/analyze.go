package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexguard/internal/core/domain"
)

const defaultTermWidth = 80

var analyzeJSON bool

var analyzeCmd = requireServices(&cobra.Command{
	Use:   "analyze [idea]",
	Short: "Assess the copyright risk of an idea",
	Long: `Retrieves the most similar stored cases and asks the configured language
models for a risk assessment citing them.

Pass the idea as arguments, or "-" to read it from stdin.`,
	Example: `  lexguard analyze "A heist film told from the vault's point of view"
  cat pitch.txt | lexguard analyze -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
})

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	idea, err := readIdea(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	resp, err := analysisService.Analyze(cmd.Context(), idea)
	if errors.Is(err, domain.ErrInvalidInput) {
		return errors.New("idea cannot be empty")
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(styles.DefaultStyles().RenderReport(resp, terminalWidth(cmd.OutOrStdout())))
	return nil
}

func readIdea(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
