package postgres

import (
	"context"
	_ "embed"
	"log/slog"

	"customer-importer/internal/pkg/apperrors"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema applies the customers table definition. Safe to run on every start.
func EnsureSchema(ctx context.Context, db DBPool, logger *slog.Logger) error {
	logger.InfoContext(ctx, "Applying database schema")
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		logger.ErrorContext(ctx, "Failed to apply database schema", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to apply schema")
	}
	logger.InfoContext(ctx, "Database schema is up to date")
	return nil
}
