package main

import (
	"customer-importer/internal/infrastructure/database/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the customers table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := initializeApp(*configPath)
			if err != nil {
				return err
			}

			dbPool, err := postgres.NewConnectionPool(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return err
			}
			defer closeDatabase(dbPool, logger)

			if err := postgres.EnsureSchema(cmd.Context(), dbPool, logger); err != nil {
				return err
			}
			logger.Info("Migration complete.")
			return nil
		},
	}
}
