package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns indicates an upload without a header row.
	ErrNoColumns = errors.New("no columns to parse from file")
	// ErrNoNumericColumns indicates a view that needs at least one numeric column.
	ErrNoNumericColumns = errors.New("no numeric columns")
	// ErrNonFiniteRange indicates values whose range cannot be bucketed.
	ErrNonFiniteRange = errors.New("values are infinite or span a range too wide to bucket")
)

// ParseError reports upload content that cannot be read as a table.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingColumnError indicates a computation that assumed a column the dataset lacks.
type MissingColumnError struct{ Column string }

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// KindError indicates a column whose kind does not suit the computation.
type KindError struct {
	Column string
	Kind   Kind
	Want   string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("column %q is %s, not %s", e.Column, e.Kind, e.Want)
}
