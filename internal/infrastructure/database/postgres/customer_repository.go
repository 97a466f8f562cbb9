package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"customer-importer/internal/domain/customer"
	"customer-importer/internal/infrastructure/monitoring"
	"customer-importer/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	customerColumns = "first_name, last_name, email_id, address, max_credit_limit, current_credit_limit, status"
	// Keeps chunkSize * len(columns) below the PostgreSQL bind parameter limit.
	insertChunkSize = 1000

	insertCustomerQuery = `INSERT INTO customers (` + customerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	findCustomerQuery   = `SELECT id, ` + customerColumns + ` FROM customers WHERE id = $1`
	countCustomersQuery = `SELECT COUNT(*) FROM customers`
)

const customerColumnCount = 7

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("emailId", cust.EmailID))
	status := "success"
	startTime := time.Now()

	err := r.db.QueryRow(ctx, insertCustomerQuery, customerArgs(cust)...).Scan(&cust.ID)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("SaveCustomer", status, time.Since(startTime))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translatedErr
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	logCtx := r.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Attempting to find customer by ID")
	status := "success"
	startTime := time.Now()

	var cust customer.Customer
	err := r.db.QueryRow(ctx, findCustomerQuery, customerID).Scan(
		&cust.ID,
		&cust.FirstName,
		&cust.LastName,
		&cust.EmailID,
		&cust.Address,
		&cust.MaxCreditLimit,
		&cust.CurrentCreditLimit,
		&cust.Status,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	monitoring.RecordDBQuery("FindCustomerByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Customer not found")
			return nil, customer.ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Failed to find customer by ID", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return &cust, nil
}

// SaveAll inserts the batch inside one transaction using multi-row inserts.
// Ids are written back onto the records only after the commit succeeds.
func (r *CustomerRepository) SaveAll(ctx context.Context, customers []*customer.Customer) (stored int, err error) {
	if len(customers) == 0 {
		return 0, nil
	}
	logCtx := r.logger.With(slog.Int("batchSize", len(customers)))
	logCtx.InfoContext(ctx, "Attempting to insert customer batch")

	status := "success"
	startTime := time.Now()
	defer func() {
		if err != nil {
			status = "error"
		}
		monitoring.RecordDBQuery("SaveAllCustomers", status, time.Since(startTime))
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}

	ids := make([]int64, 0, len(customers))
	for start := 0; start < len(customers); start += insertChunkSize {
		end := min(start+insertChunkSize, len(customers))
		chunkIDs, err := insertChunk(ctx, tx, customers[start:end])
		if err != nil {
			logCtx.ErrorContext(ctx, "Failed to insert customer chunk, rolling back",
				slog.Int("chunkStart", start), slog.Any("error", err))
			r.rollback(ctx, tx)
			return 0, translateDBError(err, logCtx)
		}
		ids = append(ids, chunkIDs...)
	}

	if err := tx.Commit(ctx); err != nil {
		logCtx.ErrorContext(ctx, "Failed to commit customer batch", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrDatabase, err)
	}

	for i, id := range ids {
		customers[i].ID = id
	}

	logCtx.InfoContext(ctx, "Customer batch inserted successfully", slog.Int("stored", len(ids)))
	return len(ids), nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	status := "success"
	startTime := time.Now()

	err := r.db.QueryRow(ctx, countCustomersQuery).Scan(&count)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CountCustomers", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *CustomerRepository) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.Any("error", err))
	}
}

func insertChunk(ctx context.Context, tx pgx.Tx, chunk []*customer.Customer) ([]int64, error) {
	args := make([]any, 0, len(chunk)*customerColumnCount)
	for _, c := range chunk {
		args = append(args, customerArgs(c)...)
	}

	rows, err := tx.Query(ctx, buildBatchInsertQuery(len(chunk)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0, len(chunk))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) != len(chunk) {
		return nil, fmt.Errorf("inserted %d customers, expected %d", len(ids), len(chunk))
	}
	return ids, nil
}

func buildBatchInsertQuery(rowCount int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO customers (")
	sb.WriteString(customerColumns)
	sb.WriteString(") VALUES ")
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := 0; j < customerColumnCount; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*customerColumnCount+j+1)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(" RETURNING id")
	return sb.String()
}

func customerArgs(c *customer.Customer) []any {
	return []any{
		c.FirstName,
		c.LastName,
		c.EmailID,
		c.Address,
		c.MaxCreditLimit,
		c.CurrentCreditLimit,
		c.Status,
	}
}
