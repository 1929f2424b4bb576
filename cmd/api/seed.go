package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/dls-barber/internal/db"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Migrate and insert the starter barber, services, schedule and admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			defer dbpkg.Close(db)

			if err := dbpkg.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := dbpkg.Seed(ctx, db, seedOptions(cfg.AdminEmail, cfg.AdminPassword), log); err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}

			log.Info("seed completed")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "maximum time for the seed transaction")
	return cmd
}

func seedOptions(email, password string) dbpkg.SeedOptions {
	return dbpkg.SeedOptions{AdminEmail: email, AdminPassword: password}
}
