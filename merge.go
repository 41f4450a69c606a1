package segtab

import (
	"time"

	"github.com/fracturedlabs/segtab/internal/frame"
	"github.com/fracturedlabs/segtab/segment"
)

// JoinMode selects the relational combination mode for Merge and Join.
type JoinMode string

const (
	JoinInner JoinMode = "inner"
	JoinOuter JoinMode = "outer"
	JoinLeft  JoinMode = "left"
	JoinRight JoinMode = "right"
	JoinCross JoinMode = "cross"
)

// Merge combines two tables relationally on the given key columns.
// The row combination itself is delegated to the engine; afterwards the
// column spec is reconciled so segment provenance survives the
// suffixing of overlapping column names.
func (t *Table) Merge(other *Table, on []string, how JoinMode) (*Table, error) {
	start := time.Now()
	out, err := t.merge(other, on, how)
	t.opts.metrics.RecordMerge(time.Since(start), err)
	return out, err
}

func (t *Table) merge(other *Table, on []string, how JoinMode) (*Table, error) {
	lf, err := t.materialize()
	if err != nil {
		return nil, err
	}
	rf, err := other.materialize()
	if err != nil {
		return nil, err
	}

	merged, err := lf.Merge(rf, on, frame.JoinKind(how))
	if err != nil {
		return nil, err
	}

	return t.derive(merged, reconcileSpec(t.spec, other.spec, on, merged))
}

// Join combines two tables on their row labels, reconciling the spec
// the same way as Merge.
func (t *Table) Join(other *Table, how JoinMode) (*Table, error) {
	start := time.Now()
	out, err := t.joinOnIndex(other, how)
	t.opts.metrics.RecordMerge(time.Since(start), err)
	return out, err
}

func (t *Table) joinOnIndex(other *Table, how JoinMode) (*Table, error) {
	lf, err := t.materialize()
	if err != nil {
		return nil, err
	}
	rf, err := other.materialize()
	if err != nil {
		return nil, err
	}

	joined, err := lf.JoinOnIndex(rf, frame.JoinKind(how))
	if err != nil {
		return nil, err
	}

	return t.derive(joined, reconcileSpec(t.spec, other.spec, nil, joined))
}

// reconcileSpec recomputes column provenance after a merge or join:
// the per-kind union of both specs minus the join keys, with every
// overlapping column rewritten to whichever suffixed form exists in the
// result, preferring the left form, first claim winning so the mapping
// stays a bijection. Entries whose column is absent from the result are
// dropped; absence of rows never drops a mapping, only absence of the
// column itself does.
func reconcileSpec(left, right *ColumnSpec, keys []string, merged *frame.Frame) *ColumnSpec {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	present := make(map[string]bool)
	for _, c := range merged.Columns() {
		present[c] = true
	}

	inLeft := make(map[string]bool)
	for _, c := range left.AllColumns() {
		inLeft[c] = true
	}
	inRight := make(map[string]bool)
	for _, c := range right.AllColumns() {
		inRight[c] = true
	}

	out := NewColumnSpec()
	claimed := make(map[string]bool)

	claim := func(kind segment.Kind, col string) {
		if present[col] && !claimed[col] {
			out.Assign(kind, col)
			claimed[col] = true
		}
	}

	for _, spec := range []*ColumnSpec{left, right} {
		for _, kind := range spec.Kinds() {
			for _, col := range spec.Columns(kind) {
				switch {
				case isKey[col]:
					claim(kind, col)
				case inLeft[col] && inRight[col]:
					// The engine suffixed this overlap; rewrite the
					// entry to whichever suffixed form survived.
					if present[col+frame.LeftSuffix] && !claimed[col+frame.LeftSuffix] {
						claim(kind, col+frame.LeftSuffix)
					} else {
						claim(kind, col+frame.RightSuffix)
					}
				default:
					claim(kind, col)
				}
			}
		}
	}

	out.compact()
	return out
}
