package segtab

import (
	"github.com/fracturedlabs/segtab/internal/frame"
	"github.com/fracturedlabs/segtab/segment"
)

// Binary operators materialize both operands, delegate the elementwise
// computation to the engine and redistribute the result under the left
// operand's spec; columns only the right operand contributes are routed
// to the scratch kind, and the cursor survives where the referenced row
// and column still exist.

func (t *Table) binary(other *Table, op frame.Op) (*Table, error) {
	lf, err := t.materialize()
	if err != nil {
		return nil, err
	}
	rf, err := other.materialize()
	if err != nil {
		return nil, err
	}
	res, err := lf.Arith(rf, op)
	if err != nil {
		return nil, err
	}
	return t.derive(res, t.spec.Clone())
}

func (t *Table) binaryScalar(v float64, op frame.Op) (*Table, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	res, err := f.ArithScalar(v, op)
	if err != nil {
		return nil, err
	}
	return t.derive(res, t.spec.Clone())
}

// Add returns t + other.
func (t *Table) Add(other *Table) (*Table, error) { return t.binary(other, frame.OpAdd) }

// Sub returns t - other.
func (t *Table) Sub(other *Table) (*Table, error) { return t.binary(other, frame.OpSub) }

// Mul returns t * other.
func (t *Table) Mul(other *Table) (*Table, error) { return t.binary(other, frame.OpMul) }

// Div returns t / other.
func (t *Table) Div(other *Table) (*Table, error) { return t.binary(other, frame.OpDiv) }

// FloorDiv returns t // other, the floored quotient.
func (t *Table) FloorDiv(other *Table) (*Table, error) { return t.binary(other, frame.OpFloorDiv) }

// Pow returns t ** other.
func (t *Table) Pow(other *Table) (*Table, error) { return t.binary(other, frame.OpPow) }

// Eq compares cell by cell, yielding a boolean-valued table.
func (t *Table) Eq(other *Table) (*Table, error) { return t.binary(other, frame.OpEq) }

// Lt compares cell by cell with <.
func (t *Table) Lt(other *Table) (*Table, error) { return t.binary(other, frame.OpLt) }

// Gt compares cell by cell with >.
func (t *Table) Gt(other *Table) (*Table, error) { return t.binary(other, frame.OpGt) }

// AddScalar returns t + v.
func (t *Table) AddScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpAdd) }

// SubScalar returns t - v.
func (t *Table) SubScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpSub) }

// MulScalar returns t * v.
func (t *Table) MulScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpMul) }

// DivScalar returns t / v.
func (t *Table) DivScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpDiv) }

// FloorDivScalar returns t // v.
func (t *Table) FloorDivScalar(v float64) (*Table, error) {
	return t.binaryScalar(v, frame.OpFloorDiv)
}

// PowScalar returns t ** v.
func (t *Table) PowScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpPow) }

// EqScalar compares every cell with v.
func (t *Table) EqScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpEq) }

// LtScalar compares every cell with v using <.
func (t *Table) LtScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpLt) }

// GtScalar compares every cell with v using >.
func (t *Table) GtScalar(v float64) (*Table, error) { return t.binaryScalar(v, frame.OpGt) }

// Neg negates every numeric cell.
func (t *Table) Neg() (*Table, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	res, err := f.Neg()
	if err != nil {
		return nil, err
	}
	return t.derive(res, t.spec.Clone())
}

// Not inverts every boolean cell.
func (t *Table) Not() (*Table, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	res, err := f.Not()
	if err != nil {
		return nil, err
	}
	return t.derive(res, t.spec.Clone())
}

// Transpose swaps rows and columns. Segment semantics are
// column-shaped, so provenance does not survive: the result is always
// scratch-classified.
func (t *Table) Transpose() (*Table, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	res, err := f.Transpose(t.opts.indexName)
	if err != nil {
		return nil, err
	}
	return t.derive(res, Uniform(segment.Cache))
}

// SortByIndex reorders rows by label, numerically when every label
// parses as a number.
func (t *Table) SortByIndex(asc bool) (*Table, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	res, err := f.SortByIndex(asc)
	if err != nil {
		return nil, err
	}
	return t.derive(res, t.spec.Clone())
}

// SortBy reorders rows by the values of a column.
func (t *Table) SortBy(col string, asc bool) (*Table, error) {
	if _, ok := t.spec.KindOf(col); !ok {
		return nil, &ErrUnknownKey{Key: col}
	}
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	res, err := f.SortByColumn(col, asc)
	if err != nil {
		return nil, err
	}
	return t.derive(res, t.spec.Clone())
}
