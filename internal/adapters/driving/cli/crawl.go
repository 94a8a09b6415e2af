package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var crawlLimit int

var crawlCmd = requireServices(&cobra.Command{
	Use:   "crawl [url]",
	Short: "Discover and ingest cases from a search results page",
	Long: `Fetches a search results page, collects links to case pages and ingests
up to --limit of them. A URL that is itself a case page is ingested directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
})

func init() {
	crawlCmd.Flags().IntVarP(&crawlLimit, "limit", "n", 3, "maximum number of cases to ingest")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	report, err := ingestService.Crawl(cmd.Context(), args[0], crawlLimit)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	cmd.Printf("Successfully scouted and learned %d new potential cases.\n", report.Stored)
	for _, c := range report.Cases {
		cmd.Printf("  %s\n    %s\n", c.Title, c.URL)
	}
	if report.Skipped > 0 || report.Failed > 0 {
		printReport(cmd, report)
	}
	return nil
}
