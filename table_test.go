package segtab

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracturedlabs/segtab/segment"
)

func fixtureSpec() *ColumnSpec {
	return NewColumnSpec().
		Assign(segment.Input, "region").
		Assign(segment.Constants, "unit").
		Assign(segment.Cache, "score")
}

func fixtureTable(t *testing.T, optFns ...Option) *Table {
	t.Helper()
	tab, err := New(
		[]string{"a", "b"},
		[]string{"region", "unit", "score"},
		map[string][]any{
			"region": {"north", "south"},
			"unit":   {"MW", "MW"},
			"score":  {1.5, 2.5},
		},
		fixtureSpec(),
		optFns...,
	)
	require.NoError(t, err)
	return tab
}

func TestNewDistribution(t *testing.T) {
	tab := fixtureTable(t)

	assert.Equal(t, []segment.Kind{segment.Input, segment.Constants, segment.Cache}, tab.Kinds())
	assert.Equal(t, []string{"region", "unit", "score"}, tab.Columns())
	assert.Equal(t, []string{"a", "b"}, tab.Index())

	kind, ok := tab.KindOf("unit")
	require.True(t, ok)
	assert.Equal(t, segment.Constants, kind)

	rec, ok := tab.Parameters(segment.Constants)
	require.True(t, ok)
	v, ok := rec.Get("unit")
	require.True(t, ok)
	assert.Equal(t, "MW", v, "uniform parameters collapse to a scalar")
}

func TestNewDefaultsToCache(t *testing.T) {
	tab, err := New(nil, []string{"x"}, map[string][]any{"x": {1, 2}}, nil)
	require.NoError(t, err)

	kind, ok := tab.KindOf("x")
	require.True(t, ok)
	assert.Equal(t, segment.Cache, kind)
	assert.Equal(t, []string{"0", "1"}, tab.Index(), "positional labels when none supplied")
}

func TestNewUniformShorthand(t *testing.T) {
	tab, err := New(nil, []string{"x", "y"},
		map[string][]any{"x": {1}, "y": {2}}, Uniform(segment.Output))
	require.NoError(t, err)

	for _, c := range []string{"x", "y"} {
		kind, ok := tab.KindOf(c)
		require.True(t, ok)
		assert.Equal(t, segment.Output, kind)
	}
}

func TestNewUnassignedColumnsAppendToCache(t *testing.T) {
	spec := NewColumnSpec().Assign(segment.Input, "x")
	tab, err := New(nil, []string{"x", "extra"},
		map[string][]any{"x": {1}, "extra": {2}}, spec)
	require.NoError(t, err)

	kind, ok := tab.KindOf("extra")
	require.True(t, ok)
	assert.Equal(t, segment.Cache, kind)
}

func TestNewInconsistentParameter(t *testing.T) {
	_, err := New([]string{"a", "b"}, []string{"unit"},
		map[string][]any{"unit": {"MW", "GW"}},
		NewColumnSpec().Assign(segment.Constants, "unit"))
	require.Error(t, err)

	var icp *ErrInconsistentParameter
	require.ErrorAs(t, err, &icp)
	assert.Equal(t, "unit", icp.Column)
	assert.Equal(t, segment.Constants, icp.Kind)
}

func TestDuplicateRowHandling(t *testing.T) {
	labels := []string{"1", "1", "2"}
	values := map[string][]any{"x": {10, 20, 30}}

	t.Run("NonSeriesKindDropsDuplicates", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		tab, err := New(labels, []string{"x"}, values,
			Uniform(segment.Cache), WithLogger(logger))
		require.NoError(t, err)

		assert.Equal(t, []string{"1", "2"}, tab.Index())
		v, err := tab.At("1", "x")
		require.NoError(t, err)
		assert.Equal(t, 10, v, "first occurrence wins")
		assert.Contains(t, buf.String(), "duplicate", "dropping must be surfaced")
		assert.Contains(t, buf.String(), "kind=cache", "notice carries the owning segment kind")
	})

	t.Run("SeriesKindRetainsDuplicates", func(t *testing.T) {
		tab, err := New(labels, []string{"x"}, values, Uniform(segment.SeriesCache))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "1", "2"}, tab.Index())
	})
}

func TestDuplicateDropMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	_, err := New([]string{"1", "1", "2"}, []string{"x"},
		map[string][]any{"x": {10, 20, 30}},
		Uniform(segment.Cache), WithMetricsCollector(metrics))
	require.NoError(t, err)

	assert.EqualValues(t, 1, metrics.BuildCount.Load())
	assert.EqualValues(t, 1, metrics.DuplicatesDropped.Load())
}

func TestEffectiveIndexAllParameters(t *testing.T) {
	tab, err := NewRow(map[string]any{"c": 1.0}, Uniform(segment.Constants))
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, tab.Index(), "all-parameters tables get a synthetic row")

	recs, err := tab.Records()
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestEmptyTable(t *testing.T) {
	tab, err := New(nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, tab.Index())
	assert.Zero(t, tab.NumRows())
}

func TestCursorInitialization(t *testing.T) {
	tab, err := New([]string{"1", "1", "2"},
		[]string{"x", "child"},
		map[string][]any{
			"x":     {1, 2, 3},
			"child": {10, 20, 30},
		},
		NewColumnSpec().
			Assign(segment.Cache, "x").
			Assign(segment.SeriesCache, "child"))
	require.NoError(t, err)

	cur := tab.Cursor()
	assert.Equal(t, "1", cur.Row)
	assert.Equal(t, "x", cur.Column)
	assert.Equal(t, "child", cur.Selector, "selector defaults to the first series column")
	assert.Empty(t, cur.Subrow)
}

func TestSpecValidation(t *testing.T) {
	t.Run("DisjointnessViolation", func(t *testing.T) {
		spec := NewColumnSpec().
			Assign(segment.Input, "x").
			Assign(segment.Cache, "x")
		_, err := New(nil, []string{"x"}, map[string][]any{"x": {1}}, spec)
		require.Error(t, err)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		spec := NewColumnSpec().Assign(segment.Kind("bogus"), "x")
		_, err := New(nil, []string{"x"}, map[string][]any{"x": {1}}, spec)
		require.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestRoundTrip(t *testing.T) {
	tab := fixtureTable(t)

	recs, err := tab.Records()
	require.NoError(t, err)

	back, err := NewRecords(recs, fixtureSpec())
	require.NoError(t, err)

	assert.True(t, tab.Spec().Equal(back.Spec()), "spec survives when passed back explicitly")
	assert.Equal(t, tab.Index(), back.Index())

	for _, row := range tab.Index() {
		for _, col := range tab.Columns() {
			want, err := tab.At(row, col)
			require.NoError(t, err)
			got, err := back.At(row, col)
			require.NoError(t, err)
			assert.Equal(t, want, got, "cell %s/%s", row, col)
		}
	}
}

func TestSegment(t *testing.T) {
	tab := fixtureTable(t)

	seg, err := tab.Segment(segment.Cache)
	require.NoError(t, err)
	assert.Equal(t, []string{"score"}, seg.Columns())

	seg, err = tab.Segment(segment.Constants)
	require.NoError(t, err)
	v, err := seg.At("0", "unit")
	require.NoError(t, err)
	assert.Equal(t, "MW", v)

	_, err = tab.Segment(segment.Globals)
	var unknown *ErrUnknownKey
	require.True(t, errors.As(err, &unknown))
}
