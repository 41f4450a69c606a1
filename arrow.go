package segtab

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/fracturedlabs/segtab/internal/frame"
)

// Arrow is the interchange format with file-format readers that
// materialize into arrow records (delta sharing, parquet and friends).
// The conversions work over the unified view: segment provenance
// travels separately as the column spec.

// FromArrow constructs a Table from an arrow record under a details
// descriptor. The record is not retained.
func FromArrow(rec arrow.Record, d Details, spec *ColumnSpec, optFns ...Option) (*Table, error) {
	nrows := int(rec.NumRows())
	schema := rec.Schema()

	columns := make([]string, 0, int(rec.NumCols()))
	values := make(map[string][]any, int(rec.NumCols()))

	for i := 0; i < int(rec.NumCols()); i++ {
		name := schema.Field(i).Name
		col := rec.Column(i)
		vals := make([]any, nrows)
		for j := 0; j < nrows; j++ {
			vals[j] = arrowValue(col, j)
		}
		columns = append(columns, name)
		values[name] = vals
	}

	if d.Index == "" {
		return nil, fmt.Errorf("details: index column name is required")
	}
	idx := -1
	for i, c := range columns {
		if c == d.Index {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &ErrUnknownKey{Key: d.Index}
	}

	labels := make([]string, nrows)
	for j, v := range values[d.Index] {
		labels[j] = frame.FormatLabel(v)
	}
	columns = append(columns[:idx:idx], columns[idx+1:]...)
	delete(values, d.Index)

	t, err := New(labels, columns, values, spec,
		append(optFns, WithIndexName(d.Index))...)
	if err != nil {
		return nil, err
	}
	if len(d.IgnoreColumns) > 0 || len(d.RenameColumns) > 0 || len(d.Columns) > 0 || d.Selector != "" {
		// Route the directive handling through the same path records
		// take.
		recs, err := t.Records()
		if err != nil {
			return nil, err
		}
		return FromRecords(recs, d, spec, optFns...)
	}
	return t, nil
}

// ToArrow materializes the table into an arrow record, row labels
// included as a string column. The caller owns the returned record and
// must release it.
func (t *Table) ToArrow() (arrow.Record, error) {
	f, err := t.materialize()
	if err != nil {
		return nil, err
	}

	cols := f.Columns()
	fields := make([]arrow.Field, 0, len(cols)+1)
	fields = append(fields, arrow.Field{Name: f.IndexName(), Type: arrow.BinaryTypes.String})

	colVals := make([][]any, len(cols))
	for i, c := range cols {
		vals, _ := f.Column(c)
		colVals[i] = vals
		fields = append(fields, arrow.Field{Name: c, Type: arrowType(vals), Nullable: true})
	}

	schema := arrow.NewSchema(fields, nil)
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	for _, l := range f.Labels() {
		b.Field(0).(*array.StringBuilder).Append(l)
	}
	for i, vals := range colVals {
		appendArrowColumn(b.Field(i+1), fields[i+1].Type, vals)
	}

	return b.NewRecord(), nil
}

// arrowType picks the narrowest arrow type that carries vals.
func arrowType(vals []any) arrow.DataType {
	allInt, allNum, allBool := true, true, true
	for _, v := range vals {
		switch v.(type) {
		case nil:
		case int, int32, int64:
			allBool = false
		case float32, float64:
			allInt = false
			allBool = false
		case bool:
			allInt = false
			allNum = false
		default:
			return arrow.BinaryTypes.String
		}
	}
	switch {
	case allInt:
		return arrow.PrimitiveTypes.Int64
	case allNum:
		return arrow.PrimitiveTypes.Float64
	case allBool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

func appendArrowColumn(b array.Builder, typ arrow.DataType, vals []any) {
	for _, v := range vals {
		if v == nil {
			b.AppendNull()
			continue
		}
		switch tb := b.(type) {
		case *array.Int64Builder:
			tb.Append(asArrowInt64(v))
		case *array.Float64Builder:
			tb.Append(asArrowFloat64(v))
		case *array.BooleanBuilder:
			tb.Append(v.(bool))
		case *array.StringBuilder:
			tb.Append(frame.FormatLabel(v))
		default:
			b.AppendNull()
		}
	}
}

// arrowValue converts one arrow cell into the value model, the same
// per-type dispatch readers use when rendering records.
func arrowValue(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}
	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.Boolean:
		return c.Value(pos)
	case *array.Int8:
		return int(c.Value(pos))
	case *array.Int16:
		return int(c.Value(pos))
	case *array.Int32:
		return int(c.Value(pos))
	case *array.Int64:
		return int(c.Value(pos))
	case *array.Uint8:
		return int(c.Value(pos))
	case *array.Uint16:
		return int(c.Value(pos))
	case *array.Uint32:
		return int(c.Value(pos))
	case *array.Uint64:
		return int(c.Value(pos))
	case *array.Float32:
		return float64(c.Value(pos))
	case *array.Float64:
		return c.Value(pos)
	default:
		return col.ValueStr(pos)
	}
}

func asArrowInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

func asArrowFloat64(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}
