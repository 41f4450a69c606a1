// Package segment defines the fixed taxonomy of segment kinds and the
// category rule sets they inherit.
//
// A segment kind names a group of columns with shared mutability and
// indexing semantics. A kind may belong to several categories at once
// (parameter_cache is both parameters and cache); each category
// contributes one rule: input forbids external writes, parameters
// removes the row index and enforces per-column uniformity, series
// tolerates repeated row labels, cache marks scratch space.
package segment

// Kind names a segment of columns.
type Kind string

// Recognized segment kinds.
const (
	Input          Kind = "input"
	Data           Kind = "data"
	Constants      Kind = "constants"
	GlobalConsts   Kind = "global_consts"
	Output         Kind = "output"
	WriteData      Kind = "writedata"
	WriteSeries    Kind = "writeseries"
	Parameters     Kind = "parameters"
	Globals        Kind = "globals"
	Cache          Kind = "cache"
	SeriesCache    Kind = "series_cache"
	ParameterCache Kind = "parameter_cache"
	GlobalCache    Kind = "global_cache"
)

// Category is a bitmask of rule sets a kind inherits.
type Category uint8

const (
	CatInput Category = 1 << iota
	CatOutput
	CatParameters
	CatCache
	CatSeries
)

// taxonomy is the process-wide constant mapping from kind to its
// category memberships.
var taxonomy = map[Kind]Category{
	Input:          CatInput,
	Data:           CatInput,
	Constants:      CatInput | CatParameters,
	GlobalConsts:   CatInput | CatParameters,
	Output:         CatOutput,
	WriteData:      CatOutput,
	WriteSeries:    CatOutput | CatSeries,
	Parameters:     CatOutput | CatParameters,
	Globals:        CatOutput | CatParameters,
	Cache:          CatCache,
	SeriesCache:    CatCache | CatSeries,
	ParameterCache: CatCache | CatParameters,
	GlobalCache:    CatCache | CatParameters,
}

// kindOrder fixes a stable iteration order for Kinds and OfCategory.
var kindOrder = []Kind{
	Input, Data, Constants, GlobalConsts,
	Output, WriteData, WriteSeries, Parameters, Globals,
	Cache, SeriesCache, ParameterCache, GlobalCache,
}

// Known reports whether k is part of the taxonomy.
func (k Kind) Known() bool {
	_, ok := taxonomy[k]
	return ok
}

// Categories returns the category memberships of k, or 0 for an
// unknown kind.
func (k Kind) Categories() Category {
	return taxonomy[k]
}

// Is reports whether k belongs to every category set in c.
func (k Kind) Is(c Category) bool {
	return taxonomy[k]&c == c
}

// Immutable reports whether columns of k reject external writes.
func (k Kind) Immutable() bool {
	return k.Is(CatInput)
}

// Scalar reports whether k is stored as an index-free scalar record
// rather than a row-indexed sub-table.
func (k Kind) Scalar() bool {
	return k.Is(CatParameters)
}

// KeepsDuplicates reports whether k retains rows with repeated labels.
func (k Kind) KeepsDuplicates() bool {
	return k.Is(CatSeries)
}

func (k Kind) String() string { return string(k) }

// Kinds returns all recognized kinds in stable order.
func Kinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// OfCategory returns the kinds belonging to every category set in c,
// in stable order.
func OfCategory(c Category) []Kind {
	var out []Kind
	for _, k := range kindOrder {
		if k.Is(c) {
			out = append(out, k)
		}
	}
	return out
}
