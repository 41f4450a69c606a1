package segtab

import (
	"fmt"

	"github.com/fracturedlabs/segtab/internal/frame"
	"github.com/fracturedlabs/segtab/segment"
)

// The three accessor views (cell, label range, position range) share
// one resolution routine: the column spec names the owning segment
// kind, the kind's categories decide the mutation rules. Position-based
// access only translates positions to labels and delegates.

// resolveColumn locates the segment kind owning col.
func (t *Table) resolveColumn(col string) (segment.Kind, error) {
	kind, ok := t.spec.KindOf(col)
	if !ok {
		return "", &ErrUnknownKey{Key: col}
	}
	return kind, nil
}

// At reads a single cell. For parameters columns the row label is
// ignored and the broadcast scalar returned.
func (t *Table) At(row, col string) (any, error) {
	kind, err := t.resolveColumn(col)
	if err != nil {
		return nil, err
	}

	switch s := t.storage[kind].(type) {
	case recordStore:
		v, _ := s.rec.Get(col)
		return v, nil
	case rowStore:
		v, ok := s.frame.Value(row, col)
		if !ok {
			return nil, &ErrUnknownKey{Key: row}
		}
		return v, nil
	}
	return nil, &ErrUnknownKey{Key: col}
}

// SetAt writes a single cell. Input-category columns are immutable;
// parameters columns reject cell writes entirely, since a single-cell
// write would desynchronize the broadcast scalar.
func (t *Table) SetAt(row, col string, v any) error {
	kind, err := t.resolveColumn(col)
	if err != nil {
		return err
	}
	if kind.Immutable() {
		return &ErrImmutableColumn{Column: col, Kind: kind}
	}
	if kind.Scalar() {
		return &ErrParameterNotCellMutable{Column: col, Kind: kind}
	}

	rs, ok := t.storage[kind].(rowStore)
	if !ok {
		return &ErrUnknownKey{Key: col}
	}
	if err := rs.frame.SetCell(row, col, v); err != nil {
		return &ErrUnknownKey{Key: row}
	}
	return nil
}

// Sel selects rows or columns for the range accessors. A nil Sel
// selects everything.
type Sel interface {
	isSel()
}

type labelSel struct{ labels []string }
type rangeSel struct{ from, to string }
type posSel struct{ pos []int }
type posRangeSel struct{ from, to int }

func (labelSel) isSel()    {}
func (rangeSel) isSel()    {}
func (posSel) isSel()      {}
func (posRangeSel) isSel() {}

// ByLabel selects by one or more labels. Non-string values are
// normalized the way row labels are.
func ByLabel(labels ...any) Sel {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = frame.FormatLabel(l)
	}
	return labelSel{labels: out}
}

// ByRange selects the inclusive label range from..to.
func ByRange(from, to any) Sel {
	return rangeSel{from: frame.FormatLabel(from), to: frame.FormatLabel(to)}
}

// ByPos selects by zero-based positions; only valid with ILoc/SetILoc.
func ByPos(pos ...int) Sel {
	return posSel{pos: pos}
}

// ByPosRange selects the half-open position range [from, to); only
// valid with ILoc/SetILoc.
func ByPosRange(from, to int) Sel {
	return posRangeSel{from: from, to: to}
}

// Loc returns the sub-table addressed by label selectors: rows seeded
// from the row selector, columns intersected per segment, and a fresh
// spec reflecting only the kinds that contributed non-empty column
// sets.
func (t *Table) Loc(rows, cols Sel) (*Table, error) {
	rowLabels, err := t.resolveRowSel(rows)
	if err != nil {
		return nil, err
	}
	colNames, err := t.resolveColSel(cols)
	if err != nil {
		return nil, err
	}

	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	sel, err := f.SelectColumns(colNames).SelectLabels(rowLabels)
	if err != nil {
		return nil, &ErrUnknownKey{Key: firstMissingLabel(f, rowLabels)}
	}

	return t.derive(sel, t.subSpec(colNames))
}

// SetLoc writes a value block into the addressed range, enforcing the
// same immutability rule as SetAt plus a uniformity check for
// parameters columns.
func (t *Table) SetLoc(rows, cols Sel, values any) error {
	rowLabels, err := t.resolveRowSel(rows)
	if err != nil {
		return err
	}
	colNames, err := t.resolveColSel(cols)
	if err != nil {
		return err
	}

	block, err := normalizeBlock(values, len(rowLabels), len(colNames))
	if err != nil {
		return err
	}

	for j, col := range colNames {
		kind, err := t.resolveColumn(col)
		if err != nil {
			return err
		}
		if kind.Immutable() {
			return &ErrImmutableColumn{Column: col, Kind: kind}
		}

		if kind.Scalar() {
			first := frame.FormatLabel(block[0][j])
			for i := range block {
				if frame.FormatLabel(block[i][j]) != first {
					return &ErrInconsistentParameter{Column: col, Kind: kind}
				}
			}
			t.storage[kind].(recordStore).rec.set(col, block[0][j])
			continue
		}

		rs, ok := t.storage[kind].(rowStore)
		if !ok {
			return &ErrUnknownKey{Key: col}
		}
		for i, row := range rowLabels {
			if !rs.frame.HasLabel(row) {
				continue
			}
			if err := rs.frame.SetCell(row, col, block[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ILoc translates position selectors against the effective row index
// and the column order, then delegates to Loc.
func (t *Table) ILoc(rows, cols Sel) (*Table, error) {
	rowSel, colSel, err := t.translatePositions(rows, cols)
	if err != nil {
		return nil, err
	}
	return t.Loc(rowSel, colSel)
}

// SetILoc translates position selectors and delegates to SetLoc.
func (t *Table) SetILoc(rows, cols Sel, values any) error {
	rowSel, colSel, err := t.translatePositions(rows, cols)
	if err != nil {
		return err
	}
	return t.SetLoc(rowSel, colSel, values)
}

func (t *Table) translatePositions(rows, cols Sel) (Sel, Sel, error) {
	rowSel, err := translatePosSel(rows, t.effectiveLabels())
	if err != nil {
		return nil, nil, err
	}
	colSel, err := translatePosSel(cols, t.spec.AllColumns())
	if err != nil {
		return nil, nil, err
	}
	return rowSel, colSel, nil
}

func translatePosSel(s Sel, axis []string) (Sel, error) {
	switch sel := s.(type) {
	case nil:
		return nil, nil
	case posSel:
		labels := make([]any, len(sel.pos))
		for i, p := range sel.pos {
			if p < 0 || p >= len(axis) {
				return nil, &ErrUnknownKey{Key: fmt.Sprintf("position %d", p)}
			}
			labels[i] = axis[p]
		}
		return ByLabel(labels...), nil
	case posRangeSel:
		if sel.from < 0 || sel.to > len(axis) || sel.from >= sel.to {
			return nil, &ErrUnknownKey{Key: fmt.Sprintf("position range %d:%d", sel.from, sel.to)}
		}
		labels := make([]any, 0, sel.to-sel.from)
		for p := sel.from; p < sel.to; p++ {
			labels = append(labels, axis[p])
		}
		return ByLabel(labels...), nil
	default:
		return nil, fmt.Errorf("position accessor requires ByPos or ByPosRange selectors")
	}
}

func (t *Table) resolveRowSel(s Sel) ([]string, error) {
	labels := t.effectiveLabels()
	switch sel := s.(type) {
	case nil:
		return dedupeStrings(labels), nil
	case labelSel:
		for _, l := range sel.labels {
			if !containsString(labels, l) {
				return nil, &ErrUnknownKey{Key: l}
			}
		}
		return sel.labels, nil
	case rangeSel:
		lo := indexOfString(labels, sel.from)
		hi := indexOfString(labels, sel.to)
		if lo < 0 {
			return nil, &ErrUnknownKey{Key: sel.from}
		}
		if hi < 0 {
			return nil, &ErrUnknownKey{Key: sel.to}
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return dedupeStrings(labels[lo : hi+1]), nil
	default:
		return nil, fmt.Errorf("label accessor requires ByLabel or ByRange selectors")
	}
}

func (t *Table) resolveColSel(s Sel) ([]string, error) {
	cols := t.spec.AllColumns()
	switch sel := s.(type) {
	case nil:
		return cols, nil
	case labelSel:
		for _, c := range sel.labels {
			if !containsString(cols, c) {
				return nil, &ErrUnknownKey{Key: c}
			}
		}
		return sel.labels, nil
	case rangeSel:
		lo := indexOfString(cols, sel.from)
		hi := indexOfString(cols, sel.to)
		if lo < 0 {
			return nil, &ErrUnknownKey{Key: sel.from}
		}
		if hi < 0 {
			return nil, &ErrUnknownKey{Key: sel.to}
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		return cols[lo : hi+1], nil
	default:
		return nil, fmt.Errorf("label accessor requires ByLabel or ByRange selectors")
	}
}

// subSpec restricts the spec to the given columns, dropping kinds left
// without any contribution.
func (t *Table) subSpec(cols []string) *ColumnSpec {
	keep := make(map[string]bool, len(cols))
	for _, c := range cols {
		keep[c] = true
	}
	out := NewColumnSpec()
	for _, k := range t.spec.Kinds() {
		for _, c := range t.spec.Columns(k) {
			if keep[c] {
				out.Assign(k, c)
			}
		}
	}
	out.compact()
	return out
}

// normalizeBlock shapes values into a rows x cols block: scalars
// broadcast, vectors fill a single row or column, matrices must match
// exactly.
func normalizeBlock(values any, rows, cols int) ([][]any, error) {
	broadcast := func(v any) [][]any {
		out := make([][]any, rows)
		for i := range out {
			row := make([]any, cols)
			for j := range row {
				row[j] = v
			}
			out[i] = row
		}
		return out
	}

	switch v := values.(type) {
	case [][]any:
		if len(v) != rows {
			return nil, &ErrIncompatibleShape{WantRows: rows, WantCols: cols, GotRows: len(v), GotCols: widthOf(v)}
		}
		for _, r := range v {
			if len(r) != cols {
				return nil, &ErrIncompatibleShape{WantRows: rows, WantCols: cols, GotRows: len(v), GotCols: widthOf(v)}
			}
		}
		return v, nil
	case []any:
		switch {
		case cols == 1 && len(v) == rows:
			out := make([][]any, rows)
			for i := range out {
				out[i] = []any{v[i]}
			}
			return out, nil
		case rows == 1 && len(v) == cols:
			return [][]any{v}, nil
		default:
			return nil, &ErrIncompatibleShape{WantRows: rows, WantCols: cols, GotRows: len(v), GotCols: 1}
		}
	default:
		return broadcast(v), nil
	}
}

func widthOf(block [][]any) int {
	if len(block) == 0 {
		return 0
	}
	return len(block[0])
}

func firstMissingLabel(f *frame.Frame, labels []string) string {
	for _, l := range labels {
		if !f.HasLabel(l) {
			return l
		}
	}
	return ""
}

func dedupeStrings(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	var out []string
	for _, s := range ss {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func indexOfString(ss []string, s string) int {
	for i, x := range ss {
		if x == s {
			return i
		}
	}
	return -1
}
