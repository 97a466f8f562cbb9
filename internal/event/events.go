package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CustomerEventPayload struct {
	CustomerID         int64               `json:"customerId"`
	FirstName          string              `json:"firstName"`
	LastName           string              `json:"lastName"`
	EmailID            string              `json:"emailId"`
	MaxCreditLimit     decimal.NullDecimal `json:"maxCreditLimit"`
	CurrentCreditLimit decimal.NullDecimal `json:"currentCreditLimit"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomersImportedEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	ImportID     string    `json:"importId"`
	BucketName   string    `json:"bucketName"`
	FileName     string    `json:"fileName"`
	TotalRecords int       `json:"totalRecords"`
}

// NoopPublisher drops every event. Used when RabbitMQ is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error {
	return nil
}

func (NoopPublisher) PublishCustomersImported(context.Context, CustomersImportedEvent) error {
	return nil
}

var _ EventPublisher = NoopPublisher{}
