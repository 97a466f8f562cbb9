package ingestion

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullHeader = "firstName,lastName,emailId,address,maxCreditLimit,currentCreditLimit,status\n"

func TestParseCustomers(t *testing.T) {
	t.Run("single row with all columns", func(t *testing.T) {
		input := fullHeader + "Jane,Doe,jane@x.com,1 Main St,1000.50,200.00,true\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, customers, 1)
		c := customers[0]
		assert.Zero(t, c.ID)
		assert.Equal(t, "Jane", c.FirstName)
		assert.Equal(t, "Doe", c.LastName)
		assert.Equal(t, "jane@x.com", c.EmailID)
		assert.Equal(t, "1 Main St", c.Address)
		require.True(t, c.MaxCreditLimit.Valid)
		assert.True(t, c.MaxCreditLimit.Decimal.Equal(decimal.RequireFromString("1000.50")))
		require.True(t, c.CurrentCreditLimit.Valid)
		assert.Equal(t, "200.00", c.CurrentCreditLimit.Decimal.StringFixed(2))
		assert.Nil(t, c.Status, "status column must not be read")
	})

	t.Run("rows keep file order and values are trimmed", func(t *testing.T) {
		input := "FIRSTNAME, lastname ,EmailId,Address,MaxCreditLimit,CurrentCreditLimit\n" +
			"  Ann , Lee ,ann@x.com, 2 Side St ,10,5\n" +
			"Bob,Ray,bob@x.com,3 Back St,20,15\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "Ann", customers[0].FirstName)
		assert.Equal(t, "Lee", customers[0].LastName)
		assert.Equal(t, "2 Side St", customers[0].Address)
		assert.Equal(t, "Bob", customers[1].FirstName)
	})

	t.Run("columns in any order", func(t *testing.T) {
		input := "status,currentCreditLimit,maxCreditLimit,address,emailId,lastName,firstName\n" +
			"false,1,2,Addr,e@x.com,Last,First\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "First", customers[0].FirstName)
		assert.Equal(t, "2", customers[0].MaxCreditLimit.Decimal.String())
		assert.Equal(t, "1", customers[0].CurrentCreditLimit.Decimal.String())
	})

	t.Run("empty credit limit is absent", func(t *testing.T) {
		input := fullHeader + "Jane,Doe,jane@x.com,1 Main St,,  ,\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.False(t, customers[0].MaxCreditLimit.Valid)
		assert.False(t, customers[0].CurrentCreditLimit.Valid)
	})

	t.Run("non numeric credit limit fails the whole file", func(t *testing.T) {
		input := fullHeader +
			"Ann,Lee,ann@x.com,Addr,10,5,\n" +
			"Jane,Doe,jane@x.com,1 Main St,abc,200.00,\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		assert.Nil(t, customers)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.ErrorIs(t, err, ErrRowParse)
		assert.Equal(t, 3, rowErr.Line)
		assert.Equal(t, ColumnMaxCreditLimit, rowErr.Column)
		assert.Equal(t, "abc", rowErr.Value)
	})

	t.Run("unknown header column stops before rows", func(t *testing.T) {
		input := "firstName,lastName,unknownCol\nJane,Doe,x\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		assert.Nil(t, customers)
		var headerErr *HeaderError
		require.ErrorAs(t, err, &headerErr)
		assert.ErrorIs(t, err, ErrHeaderValidation)
		assert.Equal(t, map[string]string{"unknownCol": "unknownCol not defined"}, headerErr.Fields)
	})

	t.Run("missing required column fails on first row", func(t *testing.T) {
		input := "firstName,lastName,emailId,address\nJane,Doe,jane@x.com,Addr\n"

		_, err := ParseCustomers(strings.NewReader(input))

		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, ColumnMaxCreditLimit, rowErr.Column)
		assert.ErrorIs(t, err, errMissingColumn)
	})

	t.Run("header only yields no customers", func(t *testing.T) {
		customers, err := ParseCustomers(strings.NewReader("firstName,lastName\n"))

		require.NoError(t, err)
		assert.Empty(t, customers)
	})

	t.Run("empty input yields no customers", func(t *testing.T) {
		customers, err := ParseCustomers(strings.NewReader(""))

		require.NoError(t, err)
		assert.NotNil(t, customers)
		assert.Empty(t, customers)
	})

	t.Run("leading byte order mark is ignored", func(t *testing.T) {
		input := "\ufeff" + fullHeader + "Jane,Doe,jane@x.com,Addr,1,1,\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Jane", customers[0].FirstName)
	})

	t.Run("quoted fields with commas", func(t *testing.T) {
		input := fullHeader + `Jane,Doe,jane@x.com,"1 Main St, Apt 4",1,1,` + "\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		assert.Equal(t, "1 Main St, Apt 4", customers[0].Address)
	})

	t.Run("bare quote in unquoted cell is literal text", func(t *testing.T) {
		input := fullHeader + `Jane,O"Brien,jane@x.com,Apt "B",1,1,` + "\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, `O"Brien`, customers[0].LastName)
		assert.Equal(t, `Apt "B"`, customers[0].Address)
	})

	t.Run("extra trailing fields are ignored", func(t *testing.T) {
		input := fullHeader + "Jane,Doe,jane@x.com,1 Main St,1000.50,200.00,,extra,more\n"

		customers, err := ParseCustomers(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "1 Main St", customers[0].Address)
		assert.True(t, customers[0].CurrentCreditLimit.Decimal.Equal(decimal.RequireFromString("200.00")))
	})

	t.Run("short row is a row parse failure", func(t *testing.T) {
		input := fullHeader + "Jane,Doe\n"

		_, err := ParseCustomers(strings.NewReader(input))

		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 2, rowErr.Line)
		assert.Equal(t, "emailId", rowErr.Column)
		assert.ErrorIs(t, err, ErrRowParse)
	})

	t.Run("reader failure is passed through", func(t *testing.T) {
		readErr := errors.New("connection reset")

		_, err := ParseCustomers(iotest.ErrReader(readErr))

		assert.ErrorIs(t, err, readErr)
		assert.NotErrorIs(t, err, ErrRowParse)
	})
}
