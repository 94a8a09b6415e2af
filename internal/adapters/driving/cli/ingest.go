package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexguard/internal/core/domain"
)

var ingestURLTitle string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Add legal cases to the store",
	Long:  `Commands for adding cases from CSV files, web pages and local files.`,
}

var ingestCSVCmd = requireServices(&cobra.Command{
	Use:   "csv [file]",
	Short: "Ingest cases listed in a CSV file",
	Long: `Reads a CSV with case_url, case_title and case_author columns. Each row's
case_url is fetched and stored. Rows already in the store are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestCSV,
})

var ingestURLCmd = requireServices(&cobra.Command{
	Use:   "url [url]",
	Short: "Ingest a single case page",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestURL,
})

var ingestFileCmd = requireServices(&cobra.Command{
	Use:   "file [path...]",
	Short: "Ingest local text, markdown, HTML or PDF files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngestFile,
})

func init() {
	ingestURLCmd.Flags().StringVarP(&ingestURLTitle, "title", "t", "", "case title (derived from the page when empty)")
	ingestCmd.AddCommand(ingestCSVCmd, ingestURLCmd, ingestFileCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngestCSV(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	report, err := ingestService.IngestCSV(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	printReport(cmd, report)
	return nil
}

func runIngestURL(cmd *cobra.Command, args []string) error {
	status, err := ingestService.IngestURL(cmd.Context(), args[0], ingestURLTitle)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("%s: %s\n", args[0], status)
	return nil
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	var report domain.IngestReport
	for _, path := range args {
		status, err := ingestService.IngestFile(cmd.Context(), path)
		report.Add(status, err)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", path, err)
			continue
		}
		cmd.Printf("%s: %s\n", path, status)
	}
	if len(args) > 1 {
		printReport(cmd, report)
	}
	if report.Failed == len(args) {
		return fmt.Errorf("no files ingested")
	}
	return nil
}

func printReport(cmd *cobra.Command, report domain.IngestReport) {
	cmd.Printf("Stored: %d, already indexed: %d, failed: %d\n", report.Stored, report.Skipped, report.Failed)
}
