package segtab

import (
	"fmt"

	"github.com/fracturedlabs/segtab/segment"
)

// ColumnSpec maps segment kinds to the ordered set of column names
// routed to them. A column name belongs to at most one kind.
//
// The zero value is not usable; build specs with NewColumnSpec or
// Uniform.
type ColumnSpec struct {
	kinds   []segment.Kind
	columns map[segment.Kind][]string

	// uniform routes every supplied column to one kind, the bare
	// segment-kind shorthand of the constructor surface.
	uniform segment.Kind
}

// NewColumnSpec creates an empty spec.
func NewColumnSpec() *ColumnSpec {
	return &ColumnSpec{columns: make(map[segment.Kind][]string)}
}

// Uniform creates the shorthand spec assigning every supplied column to
// kind.
func Uniform(kind segment.Kind) *ColumnSpec {
	s := NewColumnSpec()
	s.uniform = kind
	return s
}

// Assign appends columns to kind, registering the kind on first use.
// Columns already assigned elsewhere make Validate fail.
func (s *ColumnSpec) Assign(kind segment.Kind, cols ...string) *ColumnSpec {
	if _, ok := s.columns[kind]; !ok {
		s.kinds = append(s.kinds, kind)
		s.columns[kind] = nil
	}
	s.columns[kind] = append(s.columns[kind], cols...)
	return s
}

// Validate checks that every kind is part of the taxonomy and that no
// column is claimed by two kinds.
func (s *ColumnSpec) Validate() error {
	if s.uniform != "" && !s.uniform.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.uniform)
	}
	owner := make(map[string]segment.Kind)
	for _, k := range s.kinds {
		if !k.Known() {
			return fmt.Errorf("%w: %q", ErrUnknownKind, k)
		}
		for _, c := range s.columns[k] {
			if prev, dup := owner[c]; dup {
				return fmt.Errorf("column %q assigned to both %q and %q", c, prev, k)
			}
			owner[c] = k
		}
	}
	return nil
}

// Kinds returns the registered kinds in assignment order.
func (s *ColumnSpec) Kinds() []segment.Kind {
	out := make([]segment.Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}

// Columns returns the columns assigned to kind, in order.
func (s *ColumnSpec) Columns(kind segment.Kind) []string {
	out := make([]string, len(s.columns[kind]))
	copy(out, s.columns[kind])
	return out
}

// AllColumns returns every assigned column in kind iteration order,
// then intra-kind order.
func (s *ColumnSpec) AllColumns() []string {
	var out []string
	for _, k := range s.kinds {
		out = append(out, s.columns[k]...)
	}
	return out
}

// KindOf returns the kind owning col.
func (s *ColumnSpec) KindOf(col string) (segment.Kind, bool) {
	for _, k := range s.kinds {
		for _, c := range s.columns[k] {
			if c == col {
				return k, true
			}
		}
	}
	return "", false
}

// Clone returns a deep copy.
func (s *ColumnSpec) Clone() *ColumnSpec {
	out := NewColumnSpec()
	out.uniform = s.uniform
	for _, k := range s.kinds {
		out.Assign(k, s.columns[k]...)
	}
	return out
}

// Equal reports whether both specs register the same kinds in the same
// order with the same columns.
func (s *ColumnSpec) Equal(other *ColumnSpec) bool {
	if other == nil || len(s.kinds) != len(other.kinds) {
		return false
	}
	for i, k := range s.kinds {
		if other.kinds[i] != k {
			return false
		}
		a, b := s.columns[k], other.columns[k]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

func (s *ColumnSpec) String() string {
	out := "spec{"
	for i, k := range s.kinds {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s:%v", k, s.columns[k])
	}
	return out + "}"
}

// remove drops col from whichever kind owns it.
func (s *ColumnSpec) remove(col string) {
	for _, k := range s.kinds {
		cols := s.columns[k]
		for i, c := range cols {
			if c == col {
				s.columns[k] = append(cols[:i:i], cols[i+1:]...)
				return
			}
		}
	}
}

// compact drops kinds that no longer own any column.
func (s *ColumnSpec) compact() {
	var kinds []segment.Kind
	for _, k := range s.kinds {
		if len(s.columns[k]) > 0 {
			kinds = append(kinds, k)
		} else {
			delete(s.columns, k)
		}
	}
	s.kinds = kinds
}

// resolve expands the shorthand against the supplied data columns and
// routes unassigned columns to the default scratch kind.
func (s *ColumnSpec) resolve(dataColumns []string, defaultKind segment.Kind) *ColumnSpec {
	var out *ColumnSpec
	if s == nil {
		out = NewColumnSpec()
	} else if s.uniform != "" {
		out = NewColumnSpec()
		out.Assign(s.uniform, dataColumns...)
		return out
	} else {
		out = s.Clone()
	}

	assigned := make(map[string]bool)
	for _, c := range out.AllColumns() {
		assigned[c] = true
	}
	for _, c := range dataColumns {
		if !assigned[c] {
			out.Assign(defaultKind, c)
		}
	}
	return out
}
