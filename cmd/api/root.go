package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/dls-barber/internal/config"
	"github.com/BruksfildServices01/dls-barber/internal/logger"
)

type rootOptions struct {
	envFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dls-barber",
		Short: "DLS Barber reservations API",
		Long: `DLS Barber serves the booking API of a barbershop: availability,
conflict-safe reservations, accounts and the admin back office.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))

	return cmd
}

// bootstrap loads configuration and installs the process logger.
func (o *rootOptions) bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)
	return cfg, log, nil
}
