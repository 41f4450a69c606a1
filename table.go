package segtab

import (
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/fracturedlabs/segtab/internal/frame"
	"github.com/fracturedlabs/segtab/segment"
)

// Table is a segmented composite table: one unified tabular surface
// over per-kind sub-tables and scalar parameter records.
//
// The set of segment kinds and their category rules are fixed at
// construction. Cell values may be mutated in place through the
// accessors, subject to the per-category rules; every shape-changing
// operation returns a new Table.
//
// A Table is not safe for concurrent use. It assumes a single owner;
// embedders needing shared access must serialize externally or copy per
// task.
type Table struct {
	spec    *ColumnSpec
	storage map[segment.Kind]store
	cursor  Cursor
	opts    options
}

// store is the per-kind backing data: a row-indexed sub-table or, for
// parameters-category kinds, an index-free scalar record.
type store interface {
	isStore()
}

type rowStore struct {
	frame *frame.Frame
}

type recordStore struct {
	rec *Record
}

func (rowStore) isStore()    {}
func (recordStore) isStore() {}

// Record is the scalar backing of a parameters-category segment: one
// globally valid value per column.
type Record struct {
	cols []string
	vals map[string]any
}

func newRecord() *Record {
	return &Record{vals: make(map[string]any)}
}

// Columns returns the record's column names in order.
func (r *Record) Columns() []string {
	out := make([]string, len(r.cols))
	copy(out, r.cols)
	return out
}

// Get returns the scalar stored for col.
func (r *Record) Get(col string) (any, bool) {
	v, ok := r.vals[col]
	return v, ok
}

func (r *Record) set(col string, v any) {
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

func (r *Record) clone() *Record {
	out := newRecord()
	for _, c := range r.cols {
		out.set(c, r.vals[c])
	}
	return out
}

// New constructs a Table from per-column values. labels carries the row
// labels (nil for positional), columns fixes column order (nil sorts
// the map keys). A nil spec routes everything to the scratch kind;
// Uniform(kind) routes everything to kind.
func New(labels []string, columns []string, values map[string][]any, spec *ColumnSpec, optFns ...Option) (*Table, error) {
	o := applyOptions(optFns)

	if columns == nil {
		for c := range values {
			columns = append(columns, c)
		}
		sort.Strings(columns)
	}
	if labels == nil {
		n := 0
		if len(columns) > 0 {
			n = len(values[columns[0]])
		}
		labels = positionalLabels(n)
	}

	f, err := frame.New(o.indexName, labels, columns, values)
	if err != nil {
		return nil, err
	}
	return build(f, spec, o)
}

// NewRow constructs a one-row Table from a scalar-valued record.
func NewRow(row map[string]any, spec *ColumnSpec, optFns ...Option) (*Table, error) {
	columns := make([]string, 0, len(row))
	for c := range row {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	values := make(map[string][]any, len(row))
	for c, v := range row {
		values[c] = []any{v}
	}
	return New([]string{"0"}, columns, values, spec, optFns...)
}

// NewRecords constructs a Table from string records, header first.
// A column named like the configured index becomes the row labels;
// otherwise labels are positional.
func NewRecords(records [][]string, spec *ColumnSpec, optFns ...Option) (*Table, error) {
	o := applyOptions(optFns)

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	f, err := frame.FromDataFrame(df, o.indexName)
	if err != nil {
		return nil, err
	}
	return build(f, spec, o)
}

// build distributes a normalized frame into composite storage and
// initializes the focus cursor.
func build(f *frame.Frame, spec *ColumnSpec, o options) (*Table, error) {
	start := time.Now()
	t, dropped, err := distribute(f, spec, o)
	o.metrics.RecordBuild(f.NumRows(), len(f.Columns()), dropped, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func distribute(f *frame.Frame, spec *ColumnSpec, o options) (*Table, int, error) {
	resolved := spec.resolve(f.Columns(), o.defaultKind)
	if err := resolved.Validate(); err != nil {
		return nil, 0, err
	}

	// Spec entries naming columns absent from the data are dropped,
	// keeping materialize-then-reconstruct a round trip.
	for _, k := range resolved.Kinds() {
		for _, c := range resolved.Columns(k) {
			if !f.HasColumn(c) {
				resolved.remove(c)
			}
		}
	}
	resolved.compact()

	t := &Table{
		spec:    resolved,
		storage: make(map[segment.Kind]store, len(resolved.Kinds())),
		opts:    o,
	}

	totalDropped := 0
	for _, k := range resolved.Kinds() {
		sub := f.SelectColumns(resolved.Columns(k))

		switch {
		case k.Scalar():
			rec := newRecord()
			for _, c := range resolved.Columns(k) {
				v, uniform := sub.Uniform(c)
				if !uniform {
					return nil, totalDropped, &ErrInconsistentParameter{Column: c, Kind: k}
				}
				rec.set(c, v)
			}
			t.storage[k] = recordStore{rec: rec}

		case k.KeepsDuplicates():
			t.storage[k] = rowStore{frame: sub}

		default:
			deduped, dropped := sub.Dedup()
			if dropped > 0 {
				o.logger.WithKind(k).Debug("dropped duplicate rows during distribution",
					"rows", dropped)
				totalDropped += dropped
			}
			t.storage[k] = rowStore{frame: deduped}
		}
	}

	t.cursor = t.deriveCursor(o.cursor)
	return t, totalDropped, nil
}

// derive constructs a Table from an already-normalized frame under an
// explicit spec, reusing t's options and propagating its cursor.
func (t *Table) derive(f *frame.Frame, spec *ColumnSpec) (*Table, error) {
	o := t.opts
	cur := t.cursor
	o.cursor = &cur
	return build(f, spec, o)
}

// Spec returns a copy of the column spec.
func (t *Table) Spec() *ColumnSpec { return t.spec.Clone() }

// Kinds returns the segment kinds in construction order.
func (t *Table) Kinds() []segment.Kind { return t.spec.Kinds() }

// Columns returns every column in segment iteration order.
func (t *Table) Columns() []string { return t.spec.AllColumns() }

// KindOf returns the segment kind owning col.
func (t *Table) KindOf(col string) (segment.Kind, bool) { return t.spec.KindOf(col) }

// Index returns the effective row index: the labels of the first
// non-parameters segment, a single synthetic label for all-parameters
// tables, empty for empty storage.
func (t *Table) Index() []string { return t.effectiveLabels() }

// NumRows returns the length of the effective row index.
func (t *Table) NumRows() int { return len(t.effectiveLabels()) }

// Parameters returns the scalar record of a parameters-category kind.
func (t *Table) Parameters(kind segment.Kind) (*Record, bool) {
	rs, ok := t.storage[kind].(recordStore)
	if !ok {
		return nil, false
	}
	return rs.rec.clone(), true
}

// Segment returns the named segment as a standalone Table of the same
// kind.
func (t *Table) Segment(kind segment.Kind) (*Table, error) {
	st, ok := t.storage[kind]
	if !ok {
		return nil, &ErrUnknownKey{Key: kind.String()}
	}

	sub := NewColumnSpec().Assign(kind, t.spec.Columns(kind)...)
	switch s := st.(type) {
	case rowStore:
		return t.derive(s.frame.Copy(), sub)
	case recordStore:
		row := make(map[string]any, len(s.rec.cols))
		for _, c := range s.rec.cols {
			row[c] = s.rec.vals[c]
		}
		out, err := NewRow(row, sub, WithIndexName(t.opts.indexName))
		if err != nil {
			return nil, err
		}
		out.opts = t.opts
		return out, nil
	}
	return nil, ErrEmptyTable
}

func (t *Table) effectiveLabels() []string {
	for _, k := range t.spec.Kinds() {
		if k.Scalar() {
			continue
		}
		if rs, ok := t.storage[k].(rowStore); ok {
			return rs.frame.Labels()
		}
	}
	if len(t.storage) > 0 {
		return []string{"0"}
	}
	return nil
}

// seriesColumns returns the columns of series-category kinds in spec
// order.
func (t *Table) seriesColumns() []string {
	var out []string
	for _, k := range t.spec.Kinds() {
		if k.KeepsDuplicates() {
			out = append(out, t.spec.Columns(k)...)
		}
	}
	return out
}

func positionalLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = frame.FormatLabel(i)
	}
	return out
}
