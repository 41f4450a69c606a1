package segtab

import (
	"github.com/fracturedlabs/segtab/internal/frame"
)

// Cursor is the focus pointer used by single-value convenience
// operations: current row label, current column, the series column used
// to disambiguate repeated rows, and the sub-row value within that
// selector. The empty string marks an unset dimension.
type Cursor struct {
	Row      string
	Column   string
	Selector string
	Subrow   string
}

// Cursor returns the current focus cursor.
func (t *Table) Cursor() Cursor { return t.cursor }

// deriveCursor carries prev into the table's shape. Each dimension
// survives only while it still references an existing row, column or
// selector; a dimension that no longer resolves resets to unset, never
// to another cell. A nil prev (fresh construction) starts at the first
// available row, column and selector instead.
func (t *Table) deriveCursor(prev *Cursor) Cursor {
	var c Cursor

	labels := t.effectiveLabels()
	seriesCols := t.seriesColumns()

	if prev == nil {
		if len(labels) > 0 {
			c.Row = labels[0]
		}
		if cols := t.spec.AllColumns(); len(cols) > 0 {
			c.Column = cols[0]
		}
		if len(seriesCols) > 0 {
			c.Selector = seriesCols[0]
		}
		return c
	}

	if prev.Row != "" && containsString(labels, prev.Row) {
		c.Row = prev.Row
	}
	if prev.Column != "" {
		if _, ok := t.spec.KindOf(prev.Column); ok {
			c.Column = prev.Column
		}
	}
	if prev.Selector != "" && containsString(seriesCols, prev.Selector) {
		c.Selector = prev.Selector
	}
	if prev.Subrow != "" && c.Selector != "" && c.Row != "" {
		if vals, err := t.subIndicesAt(c.Selector, c.Row); err == nil {
			for _, v := range vals {
				if frame.FormatLabel(v) == prev.Subrow {
					c.Subrow = prev.Subrow
					break
				}
			}
		}
	}

	if (prev.Row != "" && c.Row == "") || (prev.Column != "" && c.Column == "") {
		t.opts.logger.WithCursor(c).Debug("cursor dimension reset during derivation",
			"prevRow", prev.Row, "prevColumn", prev.Column)
	}

	return c
}

// Focus moves the cursor to the given row label and column. Either
// argument may be empty to leave that dimension in place.
func (t *Table) Focus(row, col string) error {
	if row != "" {
		if !containsString(t.effectiveLabels(), row) {
			return &ErrUnknownKey{Key: row}
		}
		t.cursor.Row = row
		t.cursor.Subrow = ""
	}
	if col != "" {
		if _, ok := t.spec.KindOf(col); !ok {
			return &ErrUnknownKey{Key: col}
		}
		t.cursor.Column = col
	}
	return nil
}

// SetSelector points the cursor's disambiguation column at col, which
// must belong to a series-category segment.
func (t *Table) SetSelector(col string) error {
	if !containsString(t.seriesColumns(), col) {
		return &ErrInvalidSelector{Selector: col}
	}
	t.cursor.Selector = col
	t.cursor.Subrow = ""
	return nil
}

// SetSubrow points the cursor at one observation within the focused
// row's subseries, identified by its selector value.
func (t *Table) SetSubrow(v any) error {
	if t.cursor.Selector == "" {
		return &ErrInvalidSelector{Selector: ""}
	}
	label := frame.FormatLabel(v)
	vals, err := t.subIndicesAt(t.cursor.Selector, t.cursor.Row)
	if err != nil {
		return err
	}
	for _, sv := range vals {
		if frame.FormatLabel(sv) == label {
			t.cursor.Subrow = label
			return nil
		}
	}
	return &ErrInvalidSubindex{Value: label}
}

// Value reads the cell at the cursor. With a sub-row set and the cursor
// column owned by a series segment, the matching observation is read
// instead of the first one.
func (t *Table) Value() (any, error) {
	if pos, f, ok := t.subrowPosition(); ok {
		v, _ := f.ValueAt(pos, t.cursor.Column)
		return v, nil
	}
	return t.At(t.cursor.Row, t.cursor.Column)
}

// SetValue writes the cell at the cursor, honoring the same mutation
// rules as SetAt.
func (t *Table) SetValue(v any) error {
	if pos, f, ok := t.subrowPosition(); ok {
		kind, _ := t.spec.KindOf(t.cursor.Column)
		if kind.Immutable() {
			return &ErrImmutableColumn{Column: t.cursor.Column, Kind: kind}
		}
		return f.SetCellAt(pos, t.cursor.Column, v)
	}
	return t.SetAt(t.cursor.Row, t.cursor.Column, v)
}

// subrowPosition resolves the cursor's sub-row to a position within the
// series segment owning the cursor column.
func (t *Table) subrowPosition() (int, *frame.Frame, bool) {
	if t.cursor.Subrow == "" || t.cursor.Selector == "" {
		return 0, nil, false
	}
	kind, ok := t.spec.KindOf(t.cursor.Column)
	if !ok || !kind.KeepsDuplicates() {
		return 0, nil, false
	}
	f := t.seriesFrame(t.cursor.Selector)
	if f == nil || !f.HasColumn(t.cursor.Column) {
		return 0, nil, false
	}

	mask := f.LabelMask(t.cursor.Row)
	it := mask.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		sv, _ := f.ValueAt(pos, t.cursor.Selector)
		if frame.FormatLabel(sv) == t.cursor.Subrow {
			return pos, f, true
		}
	}
	return 0, nil, false
}

// Subseries returns the rows of the selector's series segment sharing
// the cursor's row label, as a standalone Table.
func (t *Table) Subseries() (*Table, error) {
	if t.cursor.Selector == "" {
		return nil, &ErrInvalidSelector{Selector: ""}
	}
	if t.cursor.Row == "" {
		return nil, ErrEmptyTable
	}

	kind, _ := t.spec.KindOf(t.cursor.Selector)
	f := t.seriesFrame(t.cursor.Selector)
	if f == nil {
		return nil, &ErrInvalidSelector{Selector: t.cursor.Selector}
	}

	sub, err := f.SelectLabels([]string{t.cursor.Row})
	if err != nil {
		return nil, &ErrUnknownKey{Key: t.cursor.Row}
	}
	return t.derive(sub, NewColumnSpec().Assign(kind, t.spec.Columns(kind)...))
}

// SubIndices returns the selector values restricted to the focused
// subseries.
func (t *Table) SubIndices() ([]any, error) {
	if t.cursor.Selector == "" {
		return nil, &ErrInvalidSelector{Selector: ""}
	}
	return t.subIndicesAt(t.cursor.Selector, t.cursor.Row)
}

func (t *Table) subIndicesAt(selector, row string) ([]any, error) {
	f := t.seriesFrame(selector)
	if f == nil {
		return nil, &ErrInvalidSelector{Selector: selector}
	}
	if row == "" {
		return nil, &ErrUnknownKey{Key: row}
	}

	var out []any
	mask := f.LabelMask(row)
	if mask.IsEmpty() {
		return nil, &ErrUnknownKey{Key: row}
	}
	it := mask.Iterator()
	for it.HasNext() {
		v, _ := f.ValueAt(int(it.Next()), selector)
		out = append(out, v)
	}
	return out, nil
}

// seriesFrame returns the sub-table of the series segment owning col.
func (t *Table) seriesFrame(col string) *frame.Frame {
	kind, ok := t.spec.KindOf(col)
	if !ok || !kind.KeepsDuplicates() {
		return nil
	}
	rs, ok := t.storage[kind].(rowStore)
	if !ok {
		return nil
	}
	return rs.frame
}

// Column returns the values of col. Parameters columns broadcast their
// scalar across the effective index; series columns return every
// observation.
func (t *Table) Column(col string) ([]any, error) {
	kind, ok := t.spec.KindOf(col)
	if !ok {
		return nil, &ErrUnknownKey{Key: col}
	}

	switch s := t.storage[kind].(type) {
	case recordStore:
		v, _ := s.rec.Get(col)
		n := t.NumRows()
		out := make([]any, n)
		for i := range out {
			out[i] = v
		}
		return out, nil
	case rowStore:
		vals, _ := s.frame.Column(col)
		return vals, nil
	}
	return nil, &ErrUnknownKey{Key: col}
}

// SetColumn replaces the values of col, the sanctioned whole-column
// write path. Parameters columns accept either a single scalar slice or
// uniform values and re-verify uniformity before the record is touched.
func (t *Table) SetColumn(col string, vals []any) error {
	kind, ok := t.spec.KindOf(col)
	if !ok {
		return &ErrUnknownKey{Key: col}
	}
	if kind.Immutable() {
		return &ErrImmutableColumn{Column: col, Kind: kind}
	}

	switch s := t.storage[kind].(type) {
	case recordStore:
		if len(vals) == 0 {
			return &ErrIncompatibleShape{WantRows: 1, WantCols: 1, GotRows: 0, GotCols: 1}
		}
		first := frame.FormatLabel(vals[0])
		for _, v := range vals[1:] {
			if frame.FormatLabel(v) != first {
				return &ErrInconsistentParameter{Column: col, Kind: kind}
			}
		}
		s.rec.set(col, vals[0])
		return nil
	case rowStore:
		if len(vals) != s.frame.NumRows() {
			return &ErrIncompatibleShape{
				WantRows: s.frame.NumRows(), WantCols: 1,
				GotRows: len(vals), GotCols: 1,
			}
		}
		return s.frame.SetColumn(col, vals)
	}
	return &ErrUnknownKey{Key: col}
}

// Row returns the union of all segment values at the given row label,
// parameters included.
func (t *Table) Row(label string) (map[string]any, error) {
	out := make(map[string]any)
	found := false

	for _, k := range t.spec.Kinds() {
		switch s := t.storage[k].(type) {
		case recordStore:
			for _, c := range s.rec.cols {
				out[c] = s.rec.vals[c]
			}
		case rowStore:
			if !s.frame.HasLabel(label) {
				continue
			}
			found = true
			for _, c := range t.spec.Columns(k) {
				v, _ := s.frame.Value(label, c)
				out[c] = v
			}
		}
	}

	if !found {
		// All-parameters tables answer for the synthetic row only.
		if len(out) > 0 && containsString(t.effectiveLabels(), label) {
			return out, nil
		}
		return nil, &ErrUnknownKey{Key: label}
	}
	return out, nil
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
