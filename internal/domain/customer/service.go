package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-importer/internal/event"
	"customer-importer/internal/infrastructure/monitoring"
)

type CustomerService interface {
	AddCustomer(ctx context.Context, customer *Customer) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if eventPublisher == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will be dropped")
		eventPublisher = event.NoopPublisher{}
	}

	return &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:         cust.ID,
		FirstName:          cust.FirstName,
		LastName:           cust.LastName,
		EmailID:            cust.EmailID,
		MaxCreditLimit:     cust.MaxCreditLimit,
		CurrentCreditLimit: cust.CurrentCreditLimit,
	}
}

// AddCustomer stores a single customer. Any id or status supplied by the
// caller is discarded: the store assigns the id and the record is always
// created active.
func (s *customerService) AddCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	if customer == nil {
		return nil, errors.New("customer cannot be nil")
	}
	s.logger.InfoContext(ctx, "Attempting to add new customer")

	customer.ID = 0
	customer.Activate()

	if err := s.repo.Save(ctx, customer); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	monitoring.RecordCustomerCreated()

	logCtx := s.logger.With(slog.Int64("customerID", customer.ID))
	logCtx.InfoContext(ctx, "Successfully saved new customer, publishing creation event")

	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(customer),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to get customer by ID")

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found by repository")
			return nil, err
		}
		logCtx.ErrorContext(ctx, "Repository failed to find customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully retrieved customer")
	return customer, nil
}
