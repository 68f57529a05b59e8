package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/linkverify-server/database"
	"github.com/dtroode/linkverify-server/internal/config"
	"github.com/dtroode/linkverify-server/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger := logger.New(cfg.LogLevel)

			if cfg.StoreDriver != driverPostgres {
				return fmt.Errorf("migrations apply to the postgres store only, STORE_DRIVER is %q", cfg.StoreDriver)
			}

			if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}
