package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexguard/internal/adapters/driving/api"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/watcher"
	"github.com/custodia-labs/lexguard/internal/logger"
)

var (
	serveAddr  string
	serveWatch string
)

var serveCmd = requireServices(&cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the JSON API used by the web frontend:

  GET  /                 liveness message
  GET  /health           health check
  POST /api/analyze      {"idea": "..."}
  POST /api/learn/url    {"url": "..."}
  POST /api/crawl        {"url": "..."}
  GET  /api/cases/count  number of stored cases

With --watch, files dropped into the directory are ingested while serving.`,
	Args: cobra.NoArgs,
	RunE: runServe,
})

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, \":8000\")")
	serveCmd.Flags().StringVarP(&serveWatch, "watch", "w", "", "directory to watch for case files")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = appSettings.Server.Addr
	}

	ctx := cmd.Context()
	if serveWatch != "" {
		w := watcher.New(ingestService, serveWatch, watcher.Config{Debounce: watcher.DefaultDebounce})
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("watch: %v", err)
			}
		}()
	}

	server := api.NewServer(analysisService, ingestService, api.Config{
		Addr:        addr,
		CORSOrigins: appSettings.Server.CORSOrigins,
		Version:     version,
	})
	cmd.Printf("lexguard API listening on %s\n", addr)
	return server.Run(ctx)
}
