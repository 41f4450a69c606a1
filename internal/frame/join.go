package frame

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// JoinKind selects the relational combination mode.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinOuter JoinKind = "outer"
	JoinLeft  JoinKind = "left"
	JoinRight JoinKind = "right"
	JoinCross JoinKind = "cross"
)

// Suffixes appended to overlapping non-key column names during Merge.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// Merge combines two frames relationally on the given key columns.
// Non-key columns present on both sides are renamed with LeftSuffix and
// RightSuffix before the engine join, so the result never silently
// collides. Row labels do not survive a merge; the result gets a fresh
// positional index named after f's label column.
func (f *Frame) Merge(other *Frame, keys []string, how JoinKind) (*Frame, error) {
	if how != JoinCross {
		if len(keys) == 0 {
			return nil, fmt.Errorf("merge requires at least one key column")
		}
		for _, k := range keys {
			if !f.HasColumn(k) {
				return nil, fmt.Errorf("key column %q not in left frame", k)
			}
			if !other.HasColumn(k) {
				return nil, fmt.Errorf("key column %q not in right frame", k)
			}
		}
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	left := f.dropIndex()
	right := other.dropIndex()

	renameL := map[string]string{}
	renameR := map[string]string{}
	for _, c := range f.Columns() {
		if !isKey[c] && other.HasColumn(c) {
			renameL[c] = c + LeftSuffix
			renameR[c] = c + RightSuffix
		}
	}
	left = renameDF(left, renameL)
	right = renameDF(right, renameR)

	var df dataframe.DataFrame
	switch how {
	case JoinInner:
		df = left.InnerJoin(right, keys...)
	case JoinOuter:
		df = left.OuterJoin(right, keys...)
	case JoinLeft:
		df = left.LeftJoin(right, keys...)
	case JoinRight:
		df = left.RightJoin(right, keys...)
	case JoinCross:
		df = left.CrossJoin(right)
	default:
		return nil, fmt.Errorf("unknown join mode %q", how)
	}
	if df.Err != nil {
		return nil, df.Err
	}

	return FromDataFrame(df, f.index)
}

// JoinOnIndex combines two frames on their label columns, suffixing
// overlapping data column names like Merge. The labels survive as the
// result's label column.
func (f *Frame) JoinOnIndex(other *Frame, how JoinKind) (*Frame, error) {
	renameL := map[string]string{}
	renameR := map[string]string{}
	for _, c := range f.Columns() {
		if other.HasColumn(c) {
			renameL[c] = c + LeftSuffix
			renameR[c] = c + RightSuffix
		}
	}

	left := f.Rename(renameL)
	right := other.Rename(renameR)
	if right.index != left.index {
		right = &Frame{df: right.df.Rename(left.index, right.index), index: left.index}
	}

	var df dataframe.DataFrame
	switch how {
	case JoinInner:
		df = left.df.InnerJoin(right.df, left.index)
	case JoinOuter:
		df = left.df.OuterJoin(right.df, left.index)
	case JoinLeft:
		df = left.df.LeftJoin(right.df, left.index)
	case JoinRight:
		df = left.df.RightJoin(right.df, left.index)
	default:
		return nil, fmt.Errorf("unknown join mode %q", how)
	}
	if df.Err != nil {
		return nil, df.Err
	}

	return &Frame{df: df, index: left.index}, nil
}

// dropIndex returns the engine frame without the label column.
func (f *Frame) dropIndex() dataframe.DataFrame {
	return f.df.Select(f.Columns())
}

func renameDF(df dataframe.DataFrame, mapping map[string]string) dataframe.DataFrame {
	for old, nw := range mapping {
		df = df.Rename(nw, old)
	}
	return df
}
