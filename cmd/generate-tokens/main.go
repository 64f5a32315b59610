package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fhuszti/recordings-ms-go/internal/config"
	"github.com/fhuszti/recordings-ms-go/internal/db"
	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()

	database, err := db.New(ctx, db.Options{
		DSN:             cfg.MariaDBDSN,
		MaxOpen:         cfg.MaxOpenConns,
		MaxIdle:         cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	issuer := recording.NewTokenIssuer(
		mariadb.NewTokenLedger(database.DB),
		mariadb.NewRecordingRepository(database.DB),
	)

	if err := newRootCmd(issuer).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(issuer port.TokenIssuer) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate-tokens [recording-id...]",
		Short: "Issue upload tokens",
		Long: "Issue --count tokens for each recording id given, printed one per line.\n" +
			"Without ids, root tokens (with no parent) are issued.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			parents, err := parseParents(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, parent := range parents {
				ids, err := issuer.IssueTokens(cmd.Context(), parent, count)
				// tokens created before a failure are still valid
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of tokens to issue per recording")
	return cmd
}
