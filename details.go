package segtab

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/fracturedlabs/segtab/internal/frame"
	"github.com/fracturedlabs/segtab/segment"
)

// Details describes how a materialized table coming from a file-format
// reader maps onto the composite table: which column carries the row
// labels, which columns must exist, and the rename/ignore directives
// applied before distribution.
type Details struct {
	// Index names the column carrying the row labels. Required.
	Index string

	// Columns pre-populates missing columns with unset values.
	Columns []string

	// Selector pre-positions the cursor's series disambiguation column.
	Selector string

	// RenameColumns maps original to final column names. Applied after
	// IgnoreColumns, so it refers to the surviving original names.
	RenameColumns map[string]string

	// IgnoreColumns drops columns before anything else happens.
	IgnoreColumns []string
}

// FromRecords constructs a Table from reader output (string records,
// header first) under a details descriptor.
func FromRecords(records [][]string, d Details, spec *ColumnSpec, optFns ...Option) (*Table, error) {
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	return fromDataFrame(df, d, spec, optFns)
}

func fromDataFrame(df dataframe.DataFrame, d Details, spec *ColumnSpec, optFns []Option) (*Table, error) {
	if d.Index == "" {
		return nil, fmt.Errorf("details: index column name is required")
	}

	o := applyOptions(optFns)
	o.indexName = d.Index

	if !containsString(df.Names(), d.Index) {
		return nil, &ErrUnknownKey{Key: d.Index}
	}
	f, err := frame.FromDataFrame(df, d.Index)
	if err != nil {
		return nil, err
	}

	if len(d.IgnoreColumns) > 0 {
		f = f.DropColumns(d.IgnoreColumns)
	}
	if len(d.RenameColumns) > 0 {
		f = f.Rename(d.RenameColumns)
	}
	if len(d.Columns) > 0 {
		if err := f.EnsureColumns(d.Columns); err != nil {
			return nil, err
		}
	}

	t, err := build(f, spec, o)
	if err != nil {
		return nil, err
	}
	if d.Selector != "" {
		if err := t.SetSelector(d.Selector); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Item is one unit of data supplied by the hierarchical interface
// loader for a segment kind.
type Item struct {
	// Labels carries the row labels; nil means positional.
	Labels []string

	// Columns fixes column order; nil sorts the Values keys.
	Columns []string

	// Values holds the per-column data. For parameters-category kinds
	// every column must be uniform (single-value slices are typical).
	Values map[string][]any

	// Join declares how this item combines with the part assembled so
	// far. Defaults to outer. Ignored for parameters-category kinds,
	// whose items concatenate with later keys winning on collision.
	Join JoinMode
}

// Part pairs a segment kind with its ordered items.
type Part struct {
	Kind  segment.Kind
	Items []Item
}

// Assemble builds a Table from an ordered sequence of (kind, items)
// pairs. Row-indexed kinds join their items on row labels using each
// item's declared mode; parameters-category kinds concatenate their
// items into the scalar record, later items augmenting and colliding
// keys resolving to the later value.
func Assemble(parts []Part, optFns ...Option) (*Table, error) {
	o := applyOptions(optFns)

	spec := NewColumnSpec()
	var acc *frame.Frame
	scalars := newRecord()

	for _, part := range parts {
		if !part.Kind.Known() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, part.Kind)
		}

		if part.Kind.Scalar() {
			for _, item := range part.Items {
				cols := itemColumns(item)
				for _, c := range cols {
					vals := item.Values[c]
					if len(vals) == 0 {
						continue
					}
					first := frame.FormatLabel(vals[0])
					for _, v := range vals[1:] {
						if frame.FormatLabel(v) != first {
							return nil, &ErrInconsistentParameter{Column: c, Kind: part.Kind}
						}
					}
					if _, ok := spec.KindOf(c); !ok {
						spec.Assign(part.Kind, c)
					}
					scalars.set(c, vals[0])
				}
			}
			continue
		}

		var pf *frame.Frame
		for _, item := range part.Items {
			cols := itemColumns(item)
			labels := item.Labels
			if labels == nil && len(cols) > 0 {
				labels = positionalLabels(len(item.Values[cols[0]]))
			}
			itemFrame, err := frame.New(o.indexName, labels, cols, item.Values)
			if err != nil {
				return nil, err
			}
			if pf == nil {
				pf = itemFrame
			} else {
				mode := item.Join
				if mode == "" {
					mode = JoinOuter
				}
				pf, err = pf.JoinOnIndex(itemFrame, frame.JoinKind(mode))
				if err != nil {
					return nil, err
				}
			}
		}
		if pf == nil {
			continue
		}

		for _, c := range pf.Columns() {
			if _, ok := spec.KindOf(c); !ok {
				spec.Assign(part.Kind, c)
			}
		}
		if acc == nil {
			acc = pf
		} else {
			var err error
			acc, err = acc.Accumulate(pf)
			if err != nil {
				return nil, err
			}
		}
	}

	if acc == nil {
		labels := []string{}
		if len(scalars.cols) > 0 {
			labels = []string{"0"}
		}
		var err error
		acc, err = frame.New(o.indexName, labels, nil, nil)
		if err != nil {
			return nil, err
		}
	}
	for _, c := range scalars.cols {
		if err := acc.ConstColumn(c, scalars.vals[c]); err != nil {
			return nil, err
		}
	}

	return build(acc, spec, o)
}

func itemColumns(item Item) []string {
	if item.Columns != nil {
		return item.Columns
	}
	cols := make([]string, 0, len(item.Values))
	for c := range item.Values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
