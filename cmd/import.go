package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"customer-importer/internal/config"
	"customer-importer/internal/domain/ingestion"
	"customer-importer/internal/event"
	"customer-importer/internal/infrastructure/database/postgres"
	"customer-importer/internal/infrastructure/storage"

	"github.com/spf13/cobra"
)

func newImportCmd(configPath *string) *cobra.Command {
	var bucket, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import customers from a CSV object without starting the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" || file == "" {
				return errors.New("both --bucket and --file are required")
			}

			cfg, logger, err := initializeApp(*configPath)
			if err != nil {
				return err
			}

			dbPool, err := initializeDatabase(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeDatabase(dbPool, logger)

			rabbitConn := setupRabbitMQ(cfg, logger)
			defer closeRabbitMQConnection(rabbitConn, logger)

			importer, err := newImporter(cmd.Context(), cfg, postgres.NewCustomerRepository(dbPool, logger),
				newEventPublisher(rabbitConn, cfg, logger), logger)
			if err != nil {
				return err
			}

			result, err := importer.ImportFromBucket(cmd.Context(), bucket, file)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "bucket holding the CSV object")
	cmd.Flags().StringVar(&file, "file", "", "object key of the CSV file")
	return cmd
}

func newImporter(ctx context.Context, cfg *config.Config, sink ingestion.Sink, publisher event.EventPublisher, logger *slog.Logger) (*ingestion.ImportService, error) {
	client, err := storage.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	return ingestion.NewImportService(storage.NewS3Store(client, logger), sink, publisher, logger), nil
}

func writeResult(w io.Writer, result ingestion.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write import result: %w", err)
	}
	return nil
}
