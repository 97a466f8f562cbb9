package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"customer-importer/internal/domain/customer"
	"customer-importer/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgxmockExpectationsNotMetMsg = "pgxmock expectations were not met"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCustomerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func newTestCustomer(first, email, maxLimit string) *customer.Customer {
	c := &customer.Customer{
		FirstName: first,
		LastName:  "Doe",
		EmailID:   email,
		Address:   "1 Main St",
	}
	if maxLimit != "" {
		c.MaxCreditLimit = decimal.NewNullDecimal(decimal.RequireFromString(maxLimit))
	}
	return c
}

func TestSaveCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := newTestCustomer("Jane", "jane@x.com", "1000.50")
	cust.Activate()

	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs(customerArgs(cust)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	err := repo.Save(ctx, cust)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), cust.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveCustomerWhenNil(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	err := repo.Save(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestSaveCustomerWhenDatabaseError(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	cust := newTestCustomer("Jane", "jane@x.com", "")
	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs(customerArgs(cust)...).
		WillReturnError(errors.New("connection reset"))

	err := repo.Save(ctx, cust)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Zero(t, cust.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindByIDWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	active := true
	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerQuery)).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "first_name", "last_name", "email_id", "address",
			"max_credit_limit", "current_credit_limit", "status",
		}).AddRow(int64(5), "Jane", "Doe", "jane@x.com", "1 Main St", "1000.50", "200.00", &active))

	cust, err := repo.FindByID(ctx, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), cust.ID)
	assert.Equal(t, "Jane", cust.FirstName)
	assert.Equal(t, "jane@x.com", cust.EmailID)
	assert.Equal(t, "1000.50", cust.MaxCreditLimit.Decimal.StringFixed(2))
	assert.Equal(t, "200.00", cust.CurrentCreditLimit.Decimal.StringFixed(2))
	assert.True(t, cust.IsActive())
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindByIDWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerQuery)).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	cust, err := repo.FindByID(ctx, 404)

	assert.Nil(t, cust)
	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindByIDWhenDatabaseError(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerQuery)).
		WithArgs(int64(1)).
		WillReturnError(errors.New("timeout"))

	cust, err := repo.FindByID(ctx, 1)

	assert.Nil(t, cust)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NotErrorIs(t, err, customer.ErrNotFound)
}

func TestSaveAllWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	batch := []*customer.Customer{
		newTestCustomer("Jane", "jane@x.com", "1000.50"),
		newTestCustomer("John", "john@x.com", ""),
	}
	args := append(customerArgs(batch[0]), customerArgs(batch[1])...)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(buildBatchInsertQuery(2))).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	mockPool.ExpectCommit()

	stored, err := repo.SaveAll(ctx, batch)

	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.Equal(t, int64(1), batch[0].ID)
	assert.Equal(t, int64(2), batch[1].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveAllWhenEmpty(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	stored, err := repo.SaveAll(ctx, nil)

	assert.NoError(t, err)
	assert.Zero(t, stored)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveAllWhenChunked(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	batch := make([]*customer.Customer, insertChunkSize+1)
	for i := range batch {
		batch[i] = newTestCustomer("C", "c@x.com", "")
	}

	firstIDs := pgxmock.NewRows([]string{"id"})
	for i := 0; i < insertChunkSize; i++ {
		firstIDs.AddRow(int64(i + 1))
	}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(buildBatchInsertQuery(insertChunkSize))).
		WillReturnRows(firstIDs)
	mockPool.ExpectQuery(regexp.QuoteMeta(buildBatchInsertQuery(1))).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(insertChunkSize + 1)))
	mockPool.ExpectCommit()

	stored, err := repo.SaveAll(ctx, batch)

	require.NoError(t, err)
	assert.Equal(t, insertChunkSize+1, stored)
	assert.Equal(t, int64(insertChunkSize+1), batch[insertChunkSize].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveAllWhenInsertFailsRollsBack(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	batch := []*customer.Customer{newTestCustomer("Jane", "jane@x.com", "")}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(buildBatchInsertQuery(1))).
		WillReturnError(&pgconn.PgError{Code: "23502", Message: "null value in column"})
	mockPool.ExpectRollback()

	stored, err := repo.SaveAll(ctx, batch)

	assert.Zero(t, stored)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Zero(t, batch[0].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveAllWhenBeginFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	_, err := repo.SaveAll(ctx, []*customer.Customer{newTestCustomer("A", "a@x.com", "")})

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveAllWhenCommitFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	batch := []*customer.Customer{newTestCustomer("A", "a@x.com", "")}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(buildBatchInsertQuery(1))).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mockPool.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	stored, err := repo.SaveAll(ctx, batch)

	assert.Zero(t, stored)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Zero(t, batch[0].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCountWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(countCustomersQuery)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Count(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCountWhenDatabaseError(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(countCustomersQuery)).
		WillReturnError(errors.New("relation does not exist"))

	_, err := repo.Count(ctx)

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestBuildBatchInsertQuery(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO customers ("+customerColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7), ($8, $9, $10, $11, $12, $13, $14) RETURNING id",
		buildBatchInsertQuery(2),
	)
}

func TestEnsureSchema(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS customers")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, EnsureSchema(context.Background(), mockPool, logger))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestEnsureSchemaWhenExecFails(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS customers")).
		WillReturnError(errors.New("permission denied"))

	err = EnsureSchema(context.Background(), mockPool, logger)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}
