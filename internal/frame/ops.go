package frame

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Op names an elementwise binary operator.
type Op string

const (
	OpAdd      Op = "+"
	OpSub      Op = "-"
	OpMul      Op = "*"
	OpDiv      Op = "/"
	OpFloorDiv Op = "//"
	OpPow      Op = "**"
	OpEq       Op = "=="
	OpLt       Op = "<"
	OpGt       Op = ">"
)

func (op Op) numeric(a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpFloorDiv:
		return math.Floor(a / b)
	case OpPow:
		return math.Pow(a, b)
	}
	return nan()
}

func (op Op) comparison() bool {
	switch op {
	case OpEq, OpLt, OpGt:
		return true
	}
	return false
}

func (op Op) compare(a, b any) bool {
	fa, aNum := numeric(a)
	fb, bNum := numeric(b)
	switch op {
	case OpEq:
		if aNum && bNum {
			return fa == fb
		}
		return a != nil && a == b
	case OpLt:
		return aNum && bNum && fa < fb
	case OpGt:
		return aNum && bNum && fa > fb
	}
	return false
}

// Arith applies op cell by cell over the union of both frames' columns
// and labels. Frames with identical label sequences align positionally;
// otherwise rows align on the first occurrence of each label. Cells
// missing on either side come back unset (comparisons: false).
func (f *Frame) Arith(other *Frame, op Op) (*Frame, error) {
	cols := unionStrings(f.Columns(), other.Columns())
	positional := equalStrings(f.Labels(), other.Labels())

	var labels []string
	if positional {
		labels = f.Labels()
	} else {
		labels = unionStrings(f.Labels(), other.Labels())
	}

	lookup := func(fr *Frame, label string, row int, col string) (any, bool) {
		if positional {
			return fr.ValueAt(row, col)
		}
		return fr.Value(label, col)
	}

	values := make(map[string][]any, len(cols))
	for _, c := range cols {
		vals := make([]any, len(labels))
		for i, l := range labels {
			a, aok := lookup(f, l, i, c)
			b, bok := lookup(other, l, i, c)
			if op.comparison() {
				vals[i] = aok && bok && op.compare(a, b)
				continue
			}
			fa, fok := numeric(a)
			fb, gok := numeric(b)
			if !aok || !bok || !fok || !gok {
				vals[i] = nil
				continue
			}
			vals[i] = op.numeric(fa, fb)
		}
		values[c] = vals
	}

	return New(f.index, labels, cols, values)
}

// ArithScalar applies op between every cell and the scalar v.
// Non-numeric cells come back unset (comparisons: false).
func (f *Frame) ArithScalar(v float64, op Op) (*Frame, error) {
	cols := f.Columns()
	labels := f.Labels()

	values := make(map[string][]any, len(cols))
	for _, c := range cols {
		col, _ := f.Column(c)
		vals := make([]any, len(col))
		for i, cell := range col {
			if op.comparison() {
				vals[i] = op.compare(cell, v)
				continue
			}
			fa, ok := numeric(cell)
			if !ok {
				vals[i] = nil
				continue
			}
			vals[i] = op.numeric(fa, v)
		}
		values[c] = vals
	}

	return New(f.index, labels, cols, values)
}

// Neg negates every numeric cell; non-numeric cells come back unset.
func (f *Frame) Neg() (*Frame, error) {
	return f.mapCells(func(v any) any {
		if fv, ok := numeric(v); ok {
			return -fv
		}
		return nil
	})
}

// Not inverts every boolean cell; non-boolean cells come back unset.
func (f *Frame) Not() (*Frame, error) {
	return f.mapCells(func(v any) any {
		if b, ok := v.(bool); ok {
			return !b
		}
		return nil
	})
}

func (f *Frame) mapCells(fn func(any) any) (*Frame, error) {
	cols := f.Columns()
	values := make(map[string][]any, len(cols))
	for _, c := range cols {
		col, _ := f.Column(c)
		vals := make([]any, len(col))
		for i, cell := range col {
			vals[i] = fn(cell)
		}
		values[c] = vals
	}
	return New(f.index, f.Labels(), cols, values)
}

// Transpose swaps rows and columns: labels become column names (made
// unique when repeated) and column names become labels. Cell types are
// re-detected from their string form.
func (f *Frame) Transpose(index string) (*Frame, error) {
	if index == "" {
		index = f.index
	}

	recs := f.Records()
	nrow, ncol := len(recs), 0
	if nrow > 0 {
		ncol = len(recs[0])
	}

	out := make([][]string, ncol)
	for c := 0; c < ncol; c++ {
		row := make([]string, nrow)
		for r := 0; r < nrow; r++ {
			row[r] = recs[r][c]
		}
		out[c] = row
	}
	if len(out) > 0 {
		out[0][0] = index
		uniquify(out[0])
	}

	df := dataframe.LoadRecords(out,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	return FromDataFrame(df, index)
}

// uniquify suffixes repeated header names with _1, _2, ...
func uniquify(names []string) {
	seen := make(map[string]int, len(names))
	for i, n := range names {
		if c, dup := seen[n]; dup {
			seen[n] = c + 1
			names[i] = fmt.Sprintf("%s_%d", n, c)
		} else {
			seen[n] = 1
		}
	}
}

// SortByIndex reorders rows by label, numerically when every label
// parses as a number, lexicographically otherwise.
func (f *Frame) SortByIndex(asc bool) (*Frame, error) {
	labels := f.Labels()
	pos := make([]int, len(labels))
	for i := range pos {
		pos[i] = i
	}

	numericSort := true
	nums := make([]float64, len(labels))
	for i, l := range labels {
		n, err := strconv.ParseFloat(l, 64)
		if err != nil {
			numericSort = false
			break
		}
		nums[i] = n
	}

	less := func(i, j int) bool {
		if numericSort {
			return nums[pos[i]] < nums[pos[j]]
		}
		return labels[pos[i]] < labels[pos[j]]
	}
	if !asc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(pos, less)

	return f.SelectPositions(pos)
}

// SortByColumn reorders rows by the values of col via the engine.
func (f *Frame) SortByColumn(col string, asc bool) (*Frame, error) {
	if !f.HasColumn(col) {
		return nil, fmt.Errorf("column %q not found", col)
	}
	order := dataframe.Sort(col)
	if !asc {
		order = dataframe.RevSort(col)
	}
	df := f.df.Arrange(order)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Frame{df: df, index: f.index}, nil
}

// describeStats fixes the row order of Describe output.
var describeStats = []string{"count", "mean", "std", "min", "max"}

// Describe summarizes every numeric column with count, mean, std, min
// and max. Non-numeric columns come back unset.
func (f *Frame) Describe() (*Frame, error) {
	cols := f.Columns()
	values := make(map[string][]any, len(cols))

	for _, c := range cols {
		col, _ := f.Column(c)
		var nums []float64
		numericCol := true
		for _, v := range col {
			if v == nil {
				continue
			}
			n, ok := numeric(v)
			if !ok {
				numericCol = false
				break
			}
			nums = append(nums, n)
		}
		if !numericCol || len(nums) == 0 {
			values[c] = make([]any, len(describeStats))
			continue
		}

		sum, min, max := 0.0, nums[0], nums[0]
		for _, n := range nums {
			sum += n
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		mean := sum / float64(len(nums))
		varsum := 0.0
		for _, n := range nums {
			varsum += (n - mean) * (n - mean)
		}
		std := 0.0
		if len(nums) > 1 {
			std = math.Sqrt(varsum / float64(len(nums)-1))
		}
		values[c] = []any{len(nums), mean, std, min, max}
	}

	return New(f.index, describeStats, cols, values)
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, s := range a {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
