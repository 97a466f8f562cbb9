package ingestion

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrStorageFetch     = errors.New("storage fetch failed")
	ErrObjectNotFound   = errors.New("storage object not found")
	ErrHeaderValidation = errors.New("header validation failed")
	ErrRowParse         = errors.New("row parse failed")
	ErrPersistence      = errors.New("persistence failed")

	errMissingColumn = errors.New("column missing from header")
)

// HeaderError carries the column problems found by ValidateHeader.
type HeaderError struct {
	Fields map[string]string
}

func (e *HeaderError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, msg := range e.Fields {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return "invalid header: " + strings.Join(msgs, ", ")
}

func (e *HeaderError) Unwrap() error { return ErrHeaderValidation }

// RowError points at the cell that could not be converted.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q, value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() []error { return []error{ErrRowParse, e.Err} }

// ImportError is the failure half of an import outcome. Kind is one of the
// Err* sentinels above; Fields is only set for header failures.
type ImportError struct {
	Kind   error
	Detail string
	Fields map[string]string
	Cause  error
}

func (e *ImportError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Detail, e.Cause)
}

func (e *ImportError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
