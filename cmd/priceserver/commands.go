package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"winsbygroup.com/priceserver/internal/config"
	"winsbygroup.com/priceserver/internal/database"
	"winsbygroup.com/priceserver/internal/logging"
	"winsbygroup.com/priceserver/internal/server"
	"winsbygroup.com/priceserver/internal/version"
)

const shutdownTimeout = 10 * time.Second

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to config file",
		Value: "config.yaml",
	}

	demoFlag = &cli.BoolFlag{
		Name:  "demo",
		Usage: "load a sample model into an empty store (for demos)",
	}

	migrateFlag = &cli.BoolFlag{
		Name:  "migrate",
		Usage: "apply schema migrations before serving",
	}

	serveCmd = &cli.Command{
		Name:   "serve",
		Usage:  "Start the prediction HTTP server",
		Flags:  []cli.Flag{demoFlag, migrateFlag},
		Action: cmdServe,
	}

	migrateCmd = &cli.Command{
		Name:   "migrate",
		Usage:  "Apply schema migrations to the parameter store",
		Action: cmdMigrate,
	}

	routesCmd = &cli.Command{
		Name:   "routes",
		Usage:  "Print routes and exit",
		Action: cmdRoutes,
	}

	schemaCmd = &cli.Command{
		Name:   "schema",
		Usage:  "Print the store schema for the configured driver",
		Action: cmdSchema,
	}
)

// loadConfig reads configuration and installs the default logger.
func loadConfig(cmd *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String(configFlag.Name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.SetDefault(cfg.LogLevel), nil
}

func cmdServe(ctx context.Context, cmd *cli.Command) error {
	fmt.Println(version.Banner())

	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.DemoMode = cmd.Bool(demoFlag.Name)
	cfg.AutoMigrate = cmd.Bool(migrateFlag.Name) || cfg.DemoMode

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	defer srv.DB.Close()

	return serve(ctx, srv, log)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for
// up to shutdownTimeout.
func serve(ctx context.Context, srv *server.Server, log *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", "address", srv.HTTP.Addr)
		if err := srv.Echo.StartServer(srv.HTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown. Echo.Shutdown only stops echo's own Server, so the
	// http.Server passed to StartServer is shut down directly.
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.HTTP.Shutdown(sctx)
	})

	return g.Wait()
}

func cmdMigrate(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.RunMigrations(db.DB, cfg.DB.Driver)
}

func cmdRoutes(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv, err := server.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	defer srv.DB.Close()

	routes := srv.Echo.Routes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	w := cmd.Root().Writer
	for _, r := range routes {
		fmt.Fprintf(w, "%-6s %s\n", r.Method, r.Path)
	}
	return nil
}

func cmdSchema(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.Root().Writer, database.Schema(cfg.DB.Driver))
	return nil
}
