// Command lexguard assesses the copyright risk of ideas against stored case law.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/lexguard/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexguard/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexguard/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("reading .env: %v", err)
	}

	err := cli.Execute(ctx, version, &cli.Bootstrapper{
		OpenConfig: openConfig,
		Services:   buildServices,
		Providers:  checkProviders,
	})
	if err != nil {
		stop()
		os.Exit(1)
	}
}
