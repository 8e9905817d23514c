package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	api "noshuff-backend/cmd/api"
	"noshuff-backend/pkg/config"
	"noshuff-backend/pkg/database"
	"noshuff-backend/pkg/logger"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := &cli.Command{
		Name:  "noshuff",
		Usage: "Spotify login and playlist API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run migrations and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations and exit",
				Action: migrate,
			},
		},
		Action: serve,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "noshuff:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, _ *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	app := api.Build(cfg, db, log)

	app.Scheduler.Start(ctx)
	defer app.Scheduler.Stop()

	return app.Handler.Start(ctx, ":"+cfg.Port)
}

func migrate(ctx context.Context, _ *cli.Command) error {
	_, log, _, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("migrations applied")
	return nil
}

// bootstrap loads configuration, builds the logger, connects and migrates the database.
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *gorm.DB, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := database.Migrate(ctx, db, log); err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}
