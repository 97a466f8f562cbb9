package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"customer-importer/internal/domain/customer"

	"github.com/shopspring/decimal"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCustomers reads a CSV document whose first record is the header and
// returns one customer per data row, in file order. The header is checked
// with ValidateHeader before any row is read. Input with no header row
// yields no customers and no error.
//
// Errors are a *HeaderError, a *RowError, an error wrapping ErrRowParse for
// malformed CSV, or the underlying read error.
func ParseCustomers(r io.Reader) ([]*customer.Customer, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []*customer.Customer{}, nil
	}
	if err != nil {
		return nil, classifyReadError(err)
	}

	if problems := ValidateHeader(header); len(problems) > 0 {
		return nil, &HeaderError{Fields: problems}
	}
	idx := makeHeaderIndex(header)

	customers := []*customer.Customer{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, classifyReadError(err)
		}

		line, _ := reader.FieldPos(0)
		c, err := parseRecord(record, idx, line)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, nil
}

func parseRecord(record []string, idx headerIndex, line int) (*customer.Customer, error) {
	row := rowReader{record: record, idx: idx, line: line}

	c := &customer.Customer{
		FirstName: row.text(ColumnFirstName),
		LastName:  row.text(ColumnLastName),
		EmailID:   row.text(ColumnEmailID),
		Address:   row.text(ColumnAddress),
	}
	c.MaxCreditLimit = row.decimal(ColumnMaxCreditLimit)
	c.CurrentCreditLimit = row.decimal(ColumnCurrentCreditLimit)

	if row.err != nil {
		return nil, row.err
	}
	return c, nil
}

// rowReader looks cells up by column name and keeps the first failure.
type rowReader struct {
	record []string
	idx    headerIndex
	line   int
	err    error
}

func (r *rowReader) cell(column string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	i, ok := r.idx[strings.ToLower(column)]
	if !ok || i >= len(r.record) {
		r.err = &RowError{Line: r.line, Column: column, Err: errMissingColumn}
		return "", false
	}
	return strings.TrimSpace(r.record[i]), true
}

func (r *rowReader) text(column string) string {
	v, _ := r.cell(column)
	return v
}

func (r *rowReader) decimal(column string) decimal.NullDecimal {
	v, ok := r.cell(column)
	if !ok || v == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.err = &RowError{Line: r.line, Column: column, Value: v, Err: err}
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func classifyReadError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %w", ErrRowParse, err)
	}
	return fmt.Errorf("failed to read csv: %w", err)
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}
