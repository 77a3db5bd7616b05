// Package main provides the entry point for the eco-logique service with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// Build-time variables set via ldflags
var (
	version = "dev"
)

func main() {
	cmd := &cli.Command{
		Name:     "app",
		Usage:    "Eco-logique storefront: checkout, transactional outbox and fulfilment",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
