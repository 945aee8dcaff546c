// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog-console/cmd"
	"catalog-console/internal/wire"
	"catalog-console/pkg/utils"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	app := &cli.Command{
		Name:   "catalog-console",
		Usage:  "Admin console for the streaming catalog",
		Action: serveAction(config, logger),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP console",
				Action: serveAction(config, logger),
			},
			{
				Name:  "migrate",
				Usage: "Manage the self-hosted database schema",
				Commands: []*cli.Command{
					migrateCommand("up", "Apply all pending migrations", config, logger),
					migrateCommand("down", "Roll back the latest migration", config, logger),
					migrateCommand("status", "Show applied and pending migrations", config, logger),
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatal("Application error", zap.Error(err))
	}
}

func serveAction(config *utils.Config, logger *zap.Logger) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		logger.Info("Starting application",
			zap.String("app", config.App.Name),
			zap.String("port", config.App.Port),
			zap.String("backend", config.Backend.Driver),
			zap.Bool("debug", config.App.Debug),
		)

		if config.Session.Secret == "" {
			return fmt.Errorf("SESSION_SECRET must be set")
		}

		client, err := cmd.NewBackendClient(config, logger)
		if err != nil {
			return fmt.Errorf("init backend: %w", err)
		}
		if client.Close != nil {
			defer client.Close()
		}

		// Wire all dependencies
		app, err := wire.Wiring(client, config, logger)
		if err != nil {
			return fmt.Errorf("wire application: %w", err)
		}

		return cmd.APIServer(ctx, app.Router, config.App.Port, logger)
	}
}

func migrateCommand(action, usage string, config *utils.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  action,
		Usage: usage,
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.Migrate(action, config, logger)
		},
	}
}
