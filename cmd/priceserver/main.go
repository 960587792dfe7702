package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"winsbygroup.com/priceserver/internal/version"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "priceserver",
		Usage:   "Serve house price predictions from the latest trained model",
		Version: version.Version,
		Flags: []cli.Flag{
			configFlag,
		},
		Commands: []*cli.Command{
			serveCmd,
			migrateCmd,
			routesCmd,
			schemaCmd,
		},
		DefaultCommand: serveCmd.Name,
	}
}
