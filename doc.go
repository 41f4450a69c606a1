// Package segtab provides a segmented composite table: an in-memory
// tabular structure that partitions its columns into named segments
// with distinct mutability, uniqueness and indexing semantics, while
// presenting one unified table for reads, writes, arithmetic, merges
// and joins.
//
// Each column belongs to exactly one segment kind (input, output,
// constants, cache, writeseries, ...). The kind's categories decide the
// rules: input-category columns reject writes, parameters-category
// columns are index-free scalars enforced uniform across rows,
// series-category columns tolerate repeated row labels. Storage,
// selection, joins and row combination are delegated to the gota
// dataframe engine; segtab adds the segment routing, the provenance
// tracking across merges, and the focus-cursor convenience surface.
//
// # Quick Start
//
//	spec := segtab.NewColumnSpec().
//	    Assign(segment.Input, "region").
//	    Assign(segment.Constants, "unit").
//	    Assign(segment.Cache, "score")
//
//	t, err := segtab.New(
//	    []string{"a", "b"},
//	    []string{"region", "unit", "score"},
//	    map[string][]any{
//	        "region": {"north", "south"},
//	        "unit":   {"MW", "MW"},
//	        "score":  {1.5, 2.5},
//	    },
//	    spec,
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	v, _ := t.At("a", "score")      // 1.5
//	err = t.SetAt("a", "region", 1) // ErrImmutableColumn
//
// Range access returns new tables whose spec reflects the contributing
// segments:
//
//	sub, err := t.Loc(segtab.ByLabel("a"), segtab.ByLabel("score"))
//
// Merges reconcile column provenance across the engine's suffixing of
// overlapping names:
//
//	merged, err := left.Merge(right, []string{"region"}, segtab.JoinInner)
//
// A Table is not safe for concurrent use; embedders share one behind
// their own lock or copy per task.
package segtab
