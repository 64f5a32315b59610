package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fhuszti/recordings-ms-go/internal/config"
	"github.com/fhuszti/recordings-ms-go/internal/db"
	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/migration"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()
	defer logger.Flush()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Settings) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the recordings database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDb(cmd.Context(), cfg, func(database *db.Database) error {
				if err := migration.MigrateUp(database.DB); err != nil {
					return err
				}
				logger.Info(cmd.Context(), "✅  Migrations applied successfully")
				return nil
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDb(cmd.Context(), cfg, func(database *db.Database) error {
				if err := migration.MigrateDown(database.DB, steps); err != nil {
					return err
				}
				logger.Infof(cmd.Context(), "✅  Rolled back %d migration(s)", steps)
				return nil
			})
		},
	}
	down.Flags().IntVarP(&steps, "steps", "s", 1, "number of migrations to roll back")
	root.AddCommand(down)

	return root
}

func withDb(ctx context.Context, cfg *config.Settings, fn func(*db.Database) error) error {
	database, err := db.New(ctx, db.Options{
		DSN:             cfg.MariaDBDSN,
		MaxOpen:         cfg.MaxOpenConns,
		MaxIdle:         cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		MultiStatements: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()
	return fn(database)
}
