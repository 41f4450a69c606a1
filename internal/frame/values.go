package frame

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/series"
)

func nan() float64 { return math.NaN() }

// elemVal converts an engine element to the adapter value model:
// nil, int, float64, bool or string.
func elemVal(e series.Element) any {
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Int:
		i, err := e.Int()
		if err != nil {
			return nil
		}
		return i
	case series.Float:
		f := e.Float()
		if math.IsNaN(f) {
			return nil
		}
		return f
	case series.Bool:
		b, err := e.Bool()
		if err != nil {
			return nil
		}
		return b
	default:
		s := e.String()
		if s == "NaN" {
			return nil
		}
		return s
	}
}

func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	}
	return 0
}

func asFloat(v any) float64 {
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
	return nan()
}

// numeric reports whether v carries a number and returns it as float64.
func numeric(v any) (float64, bool) {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return asFloat(v), true
	}
	return 0, false
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NaN"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// FormatLabel normalizes an arbitrary value into a row label.
func FormatLabel(v any) string { return formatValue(v) }
