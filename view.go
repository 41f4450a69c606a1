package segtab

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/fracturedlabs/segtab/internal/frame"
	"github.com/fracturedlabs/segtab/segment"
)

// materialize assembles composite storage into one flat frame: the
// first non-parameters segment seeds the row index, every further
// row-indexed segment is outer-joined in, scalar records broadcast as
// constant columns, and columns come back in spec order.
//
// Every read-only convenience (Head, Describe, operators, String) is
// defined through this routine.
func (t *Table) materialize() (*frame.Frame, error) {
	start := time.Now()
	f, err := t.assemble()
	t.opts.metrics.RecordMaterialize(time.Since(start), err)
	return f, err
}

func (t *Table) assemble() (*frame.Frame, error) {
	var acc *frame.Frame
	var err error

	for _, k := range t.spec.Kinds() {
		rs, ok := t.storage[k].(rowStore)
		if !ok {
			continue
		}
		if acc == nil {
			acc = rs.frame.Copy()
			continue
		}
		acc, err = acc.Accumulate(rs.frame)
		if err != nil {
			return nil, err
		}
	}

	if acc == nil {
		acc, err = frame.New(t.opts.indexName, t.effectiveLabels(), nil, nil)
		if err != nil {
			return nil, err
		}
	}

	for _, k := range t.spec.Kinds() {
		rs, ok := t.storage[k].(recordStore)
		if !ok {
			continue
		}
		for _, c := range rs.rec.Columns() {
			v, _ := rs.rec.Get(c)
			if err := acc.ConstColumn(c, v); err != nil {
				return nil, err
			}
		}
	}

	return acc.SelectColumns(t.spec.AllColumns()), nil
}

// DataFrame materializes the table into the engine's flat form, row
// labels included as the index column.
func (t *Table) DataFrame() (dataframe.DataFrame, error) {
	f, err := t.materialize()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return f.DataFrame(), nil
}

// Records materializes the table as string records, header first.
func (t *Table) Records() ([][]string, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	return f.Records(), nil
}

// Maps materializes the table as one map per row.
func (t *Table) Maps() ([]map[string]any, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	return f.Maps(), nil
}

func (t *Table) String() string {
	f, err := t.materialize()
	if err != nil {
		return fmt.Sprintf("Table(error: %v)", err)
	}
	return f.String()
}

// Head returns the first n rows of the unified view as a new Table
// under the same spec.
func (t *Table) Head(n int) (*Table, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	return t.derive(f.Head(n), t.spec.Clone())
}

// Describe summarizes every numeric column of the unified view with
// count, mean, std, min and max. The result is scratch-classified.
func (t *Table) Describe() (*Table, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}
	d, err := f.Describe()
	if err != nil {
		return nil, err
	}
	return t.derive(d, Uniform(segment.Cache))
}
