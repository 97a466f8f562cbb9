package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"customer-importer/internal/domain/customer"
	"customer-importer/internal/event"
	"customer-importer/internal/infrastructure/monitoring"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "customer-importer/ingestion"

// ObjectStore retrieves a named object from a named bucket.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Sink stores a batch of customers atomically and reports how many were stored.
type Sink interface {
	SaveAll(ctx context.Context, customers []*customer.Customer) (int, error)
}

type Result struct {
	ImportID     string `json:"importId"`
	BucketName   string `json:"bucketName"`
	FileName     string `json:"fileName"`
	TotalRecords int    `json:"totalRecords"`
}

type ImportService struct {
	store  ObjectStore
	sink   Sink
	pub    event.EventPublisher
	tracer trace.Tracer
	logger *slog.Logger
}

func NewImportService(store ObjectStore, sink Sink, eventPublisher event.EventPublisher, logger *slog.Logger) *ImportService {
	if store == nil {
		panic("object store cannot be nil")
	}
	if sink == nil {
		panic("customer sink cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewImportService, using default stderr handler")
	}
	if eventPublisher == nil {
		eventPublisher = event.NoopPublisher{}
	}

	return &ImportService{
		store:  store,
		sink:   sink,
		pub:    eventPublisher,
		tracer: otel.Tracer(tracerName),
		logger: logger.With(slog.String("component", "importService")),
	}
}

// ImportFromBucket fetches bucket/fileName, parses it as customer CSV and
// stores every row in one batch. The Result is always returned; on failure
// TotalRecords is zero and the error is an *ImportError.
func (s *ImportService) ImportFromBucket(ctx context.Context, bucket, fileName string) (Result, error) {
	start := time.Now()
	result := Result{
		ImportID:   uuid.NewString(),
		BucketName: bucket,
		FileName:   fileName,
	}

	ctx, span := s.tracer.Start(ctx, "ImportFromBucket", trace.WithAttributes(
		attribute.String("import.id", result.ImportID),
		attribute.String("import.bucket", bucket),
		attribute.String("import.file", fileName),
	))
	defer span.End()

	logCtx := s.logger.With(
		slog.String("importID", result.ImportID),
		slog.String("bucket", bucket),
		slog.String("fileName", fileName),
	)
	logCtx.InfoContext(ctx, "Starting customer import")

	stored, err := s.run(ctx, logCtx, bucket, fileName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		monitoring.RecordImport(outcomeLabel(err), 0, time.Since(start))
		return result, err
	}

	result.TotalRecords = stored
	span.SetAttributes(attribute.Int("import.records", stored))
	monitoring.RecordImport("success", stored, time.Since(start))
	logCtx.InfoContext(ctx, "Customer import completed", slog.Int("totalRecords", stored), slog.Duration("duration", time.Since(start)))

	s.publishImported(ctx, logCtx, result)
	return result, nil
}

func (s *ImportService) run(ctx context.Context, logCtx *slog.Logger, bucket, fileName string) (int, error) {
	body, err := s.store.GetObject(ctx, bucket, fileName)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to fetch object from storage", slog.Any("error", err))
		return 0, &ImportError{
			Kind:   ErrStorageFetch,
			Detail: fmt.Sprintf("could not fetch %s from bucket %s", fileName, bucket),
			Cause:  err,
		}
	}
	defer body.Close()

	customers, err := ParseCustomers(body)
	if err != nil {
		return 0, s.parseFailure(ctx, logCtx, err)
	}

	if len(customers) == 0 {
		logCtx.InfoContext(ctx, "Object contains no customer rows, nothing to store")
		return 0, nil
	}

	stored, err := s.sink.SaveAll(ctx, customers)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to store customer batch", slog.Int("rows", len(customers)), slog.Any("error", err))
		return 0, &ImportError{
			Kind:   ErrPersistence,
			Detail: fmt.Sprintf("could not store %d customers", len(customers)),
			Cause:  err,
		}
	}

	return stored, nil
}

func (s *ImportService) parseFailure(ctx context.Context, logCtx *slog.Logger, err error) *ImportError {
	var headerErr *HeaderError
	var rowErr *RowError

	switch {
	case errors.As(err, &headerErr):
		for column, msg := range headerErr.Fields {
			logCtx.WarnContext(ctx, "CSV header validation failed", slog.String("column", column), slog.String("error", msg))
		}
		return &ImportError{
			Kind:   ErrHeaderValidation,
			Detail: "unexpected CSV header",
			Fields: headerErr.Fields,
			Cause:  err,
		}
	case errors.As(err, &rowErr):
		logCtx.ErrorContext(ctx, "Failed to parse CSV row",
			slog.Int("line", rowErr.Line), slog.String("column", rowErr.Column), slog.Any("error", rowErr.Err))
		return &ImportError{
			Kind:   ErrRowParse,
			Detail: fmt.Sprintf("invalid value in column %s on line %d", rowErr.Column, rowErr.Line),
			Cause:  err,
		}
	case errors.Is(err, ErrRowParse):
		logCtx.ErrorContext(ctx, "Malformed CSV content", slog.Any("error", err))
		return &ImportError{Kind: ErrRowParse, Detail: "malformed CSV content", Cause: err}
	default:
		logCtx.ErrorContext(ctx, "Failed to read object body", slog.Any("error", err))
		return &ImportError{Kind: ErrStorageFetch, Detail: "could not read object body", Cause: err}
	}
}

func (s *ImportService) publishImported(ctx context.Context, logCtx *slog.Logger, result Result) {
	evt := event.CustomersImportedEvent{
		Timestamp:    time.Now(),
		ImportID:     result.ImportID,
		BucketName:   result.BucketName,
		FileName:     result.FileName,
		TotalRecords: result.TotalRecords,
	}
	if err := s.pub.PublishCustomersImported(ctx, evt); err != nil {
		logCtx.ErrorContext(ctx, "Import stored, but FAILED to publish import event", slog.Any("error", err))
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrStorageFetch):
		return "storage_fetch"
	case errors.Is(err, ErrHeaderValidation):
		return "header_validation"
	case errors.Is(err, ErrRowParse):
		return "row_parse"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "error"
	}
}
