package docxfill

import (
	"errors"
	"fmt"
	"strings"
)

var errMissingCells = errors.New(`row object has no "cells" array`)

// TableError reports an unusable table specification. Ragged rows are not
// an error (they are padded); this covers shapes that cannot be reduced to
// rows and cells at all. Row is 1-based; zero means the failure is not
// tied to a particular row.
type TableError struct {
	Reason string
	Row    int
}

func (e *TableError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("table error in row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("table error: %s", e.Reason)
}

// UnresolvedError carries the placeholder paths that did not resolve
// against the payload. It is only returned in strict mode; otherwise
// unresolved placeholders stay literal in the document so the failure is
// visible to the reader.
type UnresolvedError struct {
	Paths []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%d unresolved placeholder(s): %s", len(e.Paths), strings.Join(e.Paths, ", "))
}

// MultiError collects multiple errors.
type MultiError struct {
	errors []error
}

// Add adds an error to the collection (ignores nil errors).
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors.
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Err returns the multi-error or nil if empty.
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("%d errors occurred:", len(m.errors)))
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// IsTableError checks if an error is a table error.
func IsTableError(err error) bool {
	var te *TableError
	return errors.As(err, &te)
}

// IsUnresolvedError checks if an error reports unresolved placeholders.
func IsUnresolvedError(err error) bool {
	var ue *UnresolvedError
	return errors.As(err, &ue)
}
