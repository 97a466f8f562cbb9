package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// SaveAll stores the batch atomically and returns how many rows were stored.
	SaveAll(ctx context.Context, customers []*Customer) (int, error)

	Count(ctx context.Context) (int64, error)
}
