package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"onboarding/internal/platform/logger"
	"onboarding/internal/platform/postgres"
	pgstore "onboarding/internal/registration/store/postgres"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres saga schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			log := logger.New(cfg.Server.LogLevel)
			ctx := cmd.Context()

			db, err := postgres.Open(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pgstore.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("schema applied")

			if purge {
				n, err := pgstore.PurgeExpired(ctx, db)
				if err != nil {
					return fmt.Errorf("purge expired rows: %w", err)
				}
				log.Info("expired rows purged", "rows", n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge-expired", false, "also delete rows past their retention horizon")
	return cmd
}
