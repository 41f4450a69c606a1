package segtab

import (
	"errors"
	"fmt"

	"github.com/fracturedlabs/segtab/segment"
)

var (
	// ErrEmptyTable is returned when an operation needs at least one row
	// or column and the table has none.
	ErrEmptyTable = errors.New("table is empty")

	// ErrUnknownKind is returned when a column spec names a segment kind
	// outside the taxonomy.
	ErrUnknownKind = errors.New("unknown segment kind")
)

// ErrImmutableColumn indicates a write attempt on a column owned by an
// input-category segment kind.
type ErrImmutableColumn struct {
	Column string
	Kind   segment.Kind
}

func (e *ErrImmutableColumn) Error() string {
	return fmt.Sprintf("column %q belongs to immutable segment %q", e.Column, e.Kind)
}

// ErrInconsistentParameter indicates non-uniform values supplied for a
// parameters-category column, at construction or at write time.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInconsistentParameter struct {
	Column string
	Kind   segment.Kind
	cause  error
}

func (e *ErrInconsistentParameter) Error() string {
	return fmt.Sprintf("parameter column %q of segment %q holds non-uniform values", e.Column, e.Kind)
}

func (e *ErrInconsistentParameter) Unwrap() error { return e.cause }

// ErrParameterNotCellMutable indicates a single-cell write into a
// parameters-category column. Parameter values are index-free; writing
// one cell would desynchronize the broadcast scalar from the rows, so
// they can only be set through a whole-column operation that re-checks
// uniformity.
type ErrParameterNotCellMutable struct {
	Column string
	Kind   segment.Kind
}

func (e *ErrParameterNotCellMutable) Error() string {
	return fmt.Sprintf("parameter column %q of segment %q cannot be written cell-wise", e.Column, e.Kind)
}

// ErrUnknownKey indicates a row or column label absent from every
// segment.
type ErrUnknownKey struct {
	Key string
}

func (e *ErrUnknownKey) Error() string {
	return fmt.Sprintf("key %q not found in any segment", e.Key)
}

// ErrInvalidSelector indicates a cursor selector column that does not
// belong to a series-category segment.
type ErrInvalidSelector struct {
	Selector string
}

func (e *ErrInvalidSelector) Error() string {
	return fmt.Sprintf("selector %q is not a series segment column", e.Selector)
}

// ErrInvalidSubindex indicates a cursor sub-row value absent from the
// selector column at the focused row.
type ErrInvalidSubindex struct {
	Value string
}

func (e *ErrInvalidSubindex) Error() string {
	return fmt.Sprintf("sub-row value %q not present in selector column", e.Value)
}

// ErrIncompatibleShape indicates a value block whose dimensions do not
// match the targeted cell range.
type ErrIncompatibleShape struct {
	WantRows, WantCols int
	GotRows, GotCols   int
}

func (e *ErrIncompatibleShape) Error() string {
	return fmt.Sprintf("shape mismatch: want %dx%d, got %dx%d", e.WantRows, e.WantCols, e.GotRows, e.GotCols)
}
