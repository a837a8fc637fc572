package importers

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnreadableSpreadsheet is the only error that aborts an import, and it
// can only happen before the first row is processed.
var ErrUnreadableSpreadsheet = errors.New("unreadable spreadsheet")

// Failure kinds as they appear in the report.
const (
	KindValidation  = "validation"
	KindConstraint  = "constraint"
	KindPersistence = "persistence"
	KindInternal    = "internal"
)

// RowValidationError rejects a row before anything is persisted.
type RowValidationError struct {
	Row     int
	Missing []string
	Title   string
}

func (e *RowValidationError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("missing required field: %s", e.Missing[0])
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// PersistenceConstraintError wraps a uniqueness violation reported by the
// store. The row is not retried under another slug.
type PersistenceConstraintError struct {
	Row int
	Err error
}

func (e *PersistenceConstraintError) Error() string { return e.Err.Error() }
func (e *PersistenceConstraintError) Unwrap() error { return e.Err }

// PersistenceError is any other failure from the store.
type PersistenceError struct {
	Row int
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// RowPanicError is a panic recovered while processing a row.
type RowPanicError struct {
	Row   int
	Value any
}

func (e *RowPanicError) Error() string {
	return fmt.Sprintf("internal error while processing row: %v", e.Value)
}

// Kind classifies a row failure for the report.
func Kind(err error) string {
	var (
		validation *RowValidationError
		constraint *PersistenceConstraintError
		recovered  *RowPanicError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &constraint):
		return KindConstraint
	case errors.As(err, &recovered):
		return KindInternal
	}
	return KindPersistence
}
