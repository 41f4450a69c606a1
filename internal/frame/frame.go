// Package frame adapts the gota dataframe engine to label-indexed row
// access.
//
// A Frame is a gota DataFrame plus the name of one column that carries
// the row labels. Labels are always strings and may repeat; all label
// translation, duplicate handling and join accumulation the composite
// table needs lives here, while storage, selection and joins are
// delegated to the engine.
package frame

import (
	"fmt"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Frame is a label-indexed view over a gota DataFrame.
type Frame struct {
	df    dataframe.DataFrame
	index string
}

// New builds a Frame from per-column values. labels become the index
// column; columns fixes the column order. Every column must have
// len(labels) values, with nil as the missing marker.
func New(index string, labels []string, columns []string, values map[string][]any) (*Frame, error) {
	if index == "" {
		index = DefaultIndex
	}

	ss := make([]series.Series, 0, len(columns)+1)
	ss = append(ss, series.New(labels, series.String, index))

	for _, c := range columns {
		vals, ok := values[c]
		if !ok {
			vals = make([]any, len(labels))
		}
		if len(vals) != len(labels) {
			return nil, fmt.Errorf("column %q has %d values for %d labels", c, len(vals), len(labels))
		}
		ss = append(ss, buildSeries(c, vals))
	}

	df := dataframe.New(ss...)
	if df.Err != nil {
		return nil, df.Err
	}

	return &Frame{df: df, index: index}, nil
}

// DefaultIndex is the label column name used when the caller does not
// supply one.
const DefaultIndex = "index"

// FromDataFrame wraps an existing DataFrame. If index names a column it
// becomes the label column (normalized to string); otherwise a
// positional label column of that name is prepended.
func FromDataFrame(df dataframe.DataFrame, index string) (*Frame, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if index == "" {
		index = DefaultIndex
	}

	if hasName(df.Names(), index) {
		labels := df.Col(index).Records()
		df = df.Mutate(series.New(labels, series.String, index))
		if df.Err != nil {
			return nil, df.Err
		}
		return &Frame{df: df, index: index}, nil
	}

	labels := positionalLabels(df.Nrow())
	out := dataframe.New(series.New(labels, series.String, index))
	for _, name := range df.Names() {
		out = out.Mutate(df.Col(name))
	}
	if out.Err != nil {
		return nil, out.Err
	}

	return &Frame{df: out, index: index}, nil
}

// DataFrame returns a copy of the underlying engine frame, label column
// included.
func (f *Frame) DataFrame() dataframe.DataFrame { return f.df.Copy() }

// IndexName returns the name of the label column.
func (f *Frame) IndexName() string { return f.index }

// Copy returns a deep copy.
func (f *Frame) Copy() *Frame {
	return &Frame{df: f.df.Copy(), index: f.index}
}

// Labels returns the row labels in order, duplicates included.
func (f *Frame) Labels() []string {
	return f.df.Col(f.index).Records()
}

// Columns returns the data column names in order, the label column
// excluded.
func (f *Frame) Columns() []string {
	var out []string
	for _, name := range f.df.Names() {
		if name != f.index {
			out = append(out, name)
		}
	}
	return out
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.df.Nrow() }

// HasColumn reports whether col is a data column.
func (f *Frame) HasColumn(col string) bool {
	return col != f.index && hasName(f.df.Names(), col)
}

// HasLabel reports whether label occurs in the index.
func (f *Frame) HasLabel(label string) bool {
	for _, l := range f.Labels() {
		if l == label {
			return true
		}
	}
	return false
}

// LabelMask returns the bitmap of row positions carrying label.
func (f *Frame) LabelMask(label string) *roaring.Bitmap {
	bm := roaring.New()
	for i, l := range f.Labels() {
		if l == label {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Value returns the cell at the first occurrence of label, or false if
// the label or column is unknown.
func (f *Frame) Value(label, col string) (any, bool) {
	if !f.HasColumn(col) {
		return nil, false
	}
	mask := f.LabelMask(label)
	if mask.IsEmpty() {
		return nil, false
	}
	return f.ValueAt(int(mask.Minimum()), col)
}

// ValueAt returns the cell at row position pos.
func (f *Frame) ValueAt(pos int, col string) (any, bool) {
	if pos < 0 || pos >= f.df.Nrow() || !f.HasColumn(col) {
		return nil, false
	}
	return elemVal(f.df.Col(col).Elem(pos)), true
}

// Column returns the values of col in row order.
func (f *Frame) Column(col string) ([]any, bool) {
	if !f.HasColumn(col) {
		return nil, false
	}
	s := f.df.Col(col)
	out := make([]any, s.Len())
	for i := range out {
		out[i] = elemVal(s.Elem(i))
	}
	return out, true
}

// SetColumn replaces the values of col, preserving its position, or
// appends a new column.
func (f *Frame) SetColumn(col string, vals []any) error {
	if col == f.index {
		return fmt.Errorf("column %q is the label column", col)
	}
	if len(vals) != f.df.Nrow() {
		return fmt.Errorf("column %q has %d values for %d rows", col, len(vals), f.df.Nrow())
	}
	df := f.df.Mutate(buildSeries(col, vals))
	if df.Err != nil {
		return df.Err
	}
	f.df = df
	return nil
}

// SetCell writes v into col at every row carrying label.
func (f *Frame) SetCell(label, col string, v any) error {
	mask := f.LabelMask(label)
	if mask.IsEmpty() {
		return fmt.Errorf("label %q not found", label)
	}
	vals, ok := f.Column(col)
	if !ok {
		return fmt.Errorf("column %q not found", col)
	}
	it := mask.Iterator()
	for it.HasNext() {
		vals[int(it.Next())] = v
	}
	return f.SetColumn(col, vals)
}

// SetCellAt writes v into col at row position pos.
func (f *Frame) SetCellAt(pos int, col string, v any) error {
	if pos < 0 || pos >= f.df.Nrow() {
		return fmt.Errorf("row position %d out of range", pos)
	}
	vals, ok := f.Column(col)
	if !ok {
		return fmt.Errorf("column %q not found", col)
	}
	vals[pos] = v
	return f.SetColumn(col, vals)
}

// ConstColumn sets col to v on every row, appending the column if
// absent.
func (f *Frame) ConstColumn(col string, v any) error {
	vals := make([]any, f.df.Nrow())
	for i := range vals {
		vals[i] = v
	}
	return f.SetColumn(col, vals)
}

// EnsureColumns appends each named column missing from the frame with
// all values unset.
func (f *Frame) EnsureColumns(cols []string) error {
	for _, c := range cols {
		if f.HasColumn(c) || c == f.index {
			continue
		}
		if err := f.SetColumn(c, make([]any, f.df.Nrow())); err != nil {
			return err
		}
	}
	return nil
}

// Rename renames data columns according to mapping (old name -> new
// name). Unknown old names are ignored.
func (f *Frame) Rename(mapping map[string]string) *Frame {
	df := f.df.Copy()
	for old, nw := range mapping {
		if old == f.index || !hasName(df.Names(), old) || old == nw {
			continue
		}
		df = df.Rename(nw, old)
	}
	return &Frame{df: df, index: f.index}
}

// SelectColumns returns a frame holding the label column plus the given
// data columns, in the given order. Unknown columns are skipped.
func (f *Frame) SelectColumns(cols []string) *Frame {
	keep := []string{f.index}
	for _, c := range cols {
		if f.HasColumn(c) {
			keep = append(keep, c)
		}
	}
	return &Frame{df: f.df.Select(keep), index: f.index}
}

// DropColumns returns a frame without the given data columns.
func (f *Frame) DropColumns(cols []string) *Frame {
	drop := map[string]bool{}
	for _, c := range cols {
		drop[c] = true
	}
	var keep []string
	for _, c := range f.Columns() {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	return f.SelectColumns(keep)
}

// SelectPositions returns the rows at the given positions, in request
// order. Positions may repeat.
func (f *Frame) SelectPositions(pos []int) (*Frame, error) {
	for _, p := range pos {
		if p < 0 || p >= f.df.Nrow() {
			return nil, fmt.Errorf("row position %d out of range", p)
		}
	}
	if len(pos) == 0 {
		return f.emptyLike(), nil
	}
	df := f.df.Subset(pos)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Frame{df: df, index: f.index}, nil
}

// SelectLabels returns the rows carrying the requested labels, each
// label contributing all of its occurrences in original order.
func (f *Frame) SelectLabels(labels []string) (*Frame, error) {
	var pos []int
	for _, l := range labels {
		mask := f.LabelMask(l)
		if mask.IsEmpty() {
			return nil, fmt.Errorf("label %q not found", l)
		}
		it := mask.Iterator()
		for it.HasNext() {
			pos = append(pos, int(it.Next()))
		}
	}
	return f.SelectPositions(pos)
}

// SliceRange returns the contiguous rows between the first occurrence
// of from and the first occurrence of to, inclusive.
func (f *Frame) SliceRange(from, to string) (*Frame, error) {
	fm, tm := f.LabelMask(from), f.LabelMask(to)
	if fm.IsEmpty() {
		return nil, fmt.Errorf("label %q not found", from)
	}
	if tm.IsEmpty() {
		return nil, fmt.Errorf("label %q not found", to)
	}
	lo, hi := int(fm.Minimum()), int(tm.Minimum())
	if lo > hi {
		lo, hi = hi, lo
	}
	pos := make([]int, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		pos = append(pos, p)
	}
	return f.SelectPositions(pos)
}

// Head returns the first n rows. Negative n yields no rows.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > f.df.Nrow() {
		n = f.df.Nrow()
	}
	pos := make([]int, n)
	for i := range pos {
		pos[i] = i
	}
	out, _ := f.SelectPositions(pos)
	return out
}

// Dedup drops rows with repeated labels, keeping the first occurrence,
// and reports how many rows were dropped.
func (f *Frame) Dedup() (*Frame, int) {
	keep := roaring.New()
	seen := make(map[string]struct{})
	labels := f.Labels()
	for i, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		keep.Add(uint32(i))
	}
	dropped := len(labels) - int(keep.GetCardinality())
	if dropped == 0 {
		return f.Copy(), 0
	}
	pos := make([]int, 0, keep.GetCardinality())
	it := keep.Iterator()
	for it.HasNext() {
		pos = append(pos, int(it.Next()))
	}
	out, _ := f.SelectPositions(pos)
	return out, dropped
}

// Accumulate outer-joins other into f on the label column, keeping f's
// rows first and appending unmatched rows of other. Cells absent on
// either side come back unset.
func (f *Frame) Accumulate(other *Frame) (*Frame, error) {
	o := other
	if o.index != f.index {
		o = &Frame{df: o.df.Rename(f.index, o.index), index: f.index}
	}
	df := f.df.OuterJoin(o.df, f.index)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Frame{df: df, index: f.index}, nil
}

// Uniform reports whether every row of col carries the same value and
// returns that value. Rows that are all unset are uniform with a nil
// value. An empty frame is uniform.
func (f *Frame) Uniform(col string) (any, bool) {
	s := f.df.Col(col)
	if s.Err != nil {
		return nil, false
	}
	recs := s.Records()
	for i := 1; i < len(recs); i++ {
		if recs[i] != recs[0] {
			return nil, false
		}
	}
	if len(recs) == 0 {
		return nil, true
	}
	return elemVal(s.Elem(0)), true
}

// Records returns the frame as string records, header first, label
// column included.
func (f *Frame) Records() [][]string { return f.df.Records() }

// Maps returns one map per row, label column included.
func (f *Frame) Maps() []map[string]any {
	labels := f.Labels()
	cols := f.Columns()
	out := make([]map[string]any, len(labels))
	for i := range out {
		m := make(map[string]any, len(cols)+1)
		m[f.index] = labels[i]
		for _, c := range cols {
			v, _ := f.ValueAt(i, c)
			m[c] = v
		}
		out[i] = m
	}
	return out
}

func (f *Frame) String() string { return f.df.String() }

// emptyLike returns a zero-row frame with the same columns.
func (f *Frame) emptyLike() *Frame {
	out, _ := New(f.index, nil, f.Columns(), nil)
	return out
}

func hasName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func positionalLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// buildSeries picks the narrowest engine type that can carry vals.
// nil marks a missing value; an int column with missing values is
// promoted to float, a bool column to string.
func buildSeries(name string, vals []any) series.Series {
	allInt, allNum, allBool := true, true, true
	hasNil := false

	for _, v := range vals {
		switch v.(type) {
		case nil:
			hasNil = true
		case int, int32, int64:
			allBool = false
		case float32, float64:
			allInt = false
			allBool = false
		case bool:
			allInt = false
			allNum = false
		default:
			allInt = false
			allNum = false
			allBool = false
		}
	}

	switch {
	case len(vals) == 0:
		return series.New([]string{}, series.String, name)
	case allInt && !hasNil:
		out := make([]int, len(vals))
		for i, v := range vals {
			out[i] = asInt(v)
		}
		return series.New(out, series.Int, name)
	case allNum:
		out := make([]float64, len(vals))
		for i, v := range vals {
			if v == nil {
				out[i] = nan()
			} else {
				out[i] = asFloat(v)
			}
		}
		return series.New(out, series.Float, name)
	case allBool && !hasNil:
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i] = v.(bool)
		}
		return series.New(out, series.Bool, name)
	default:
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = formatValue(v)
		}
		return series.New(out, series.String, name)
	}
}
