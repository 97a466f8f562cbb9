package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"customer-importer/internal/infrastructure/monitoring"
)

type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// CustomerStatsJob refreshes the stored-customers gauge.
type CustomerStatsJob struct {
	counter CustomerCounter
	logger  *slog.Logger
}

func NewCustomerStatsJob(counter CustomerCounter, logger *slog.Logger) *CustomerStatsJob {
	if counter == nil || logger == nil {
		panic("CustomerStatsJob dependencies cannot be nil")
	}
	return &CustomerStatsJob{
		counter: counter,
		logger:  logger.With("job", "CustomerStats"),
	}
}

func (j *CustomerStatsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.DebugContext(ctx, "Starting customer stats job.")

	count, err := j.counter.Count(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count customers, gauge left unchanged.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to count customers: %w", err)
	}

	monitoring.SetCustomersStored(count)
	j.logger.InfoContext(ctx, "Customer stats job finished.",
		slog.Int64("customersStored", count),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
