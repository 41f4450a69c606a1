package segtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracturedlabs/segtab/segment"
)

func TestFromRecords(t *testing.T) {
	records := [][]string{
		{"id", "region", "score", "noise"},
		{"a", "north", "1.5", "zzz"},
		{"b", "south", "2.5", "zzz"},
	}

	tab, err := FromRecords(records, Details{
		Index:         "id",
		IgnoreColumns: []string{"noise"},
		RenameColumns: map[string]string{"score": "rating"},
		Columns:       []string{"region", "rating", "flag"},
	}, NewColumnSpec().
		Assign(segment.Input, "region").
		Assign(segment.Cache, "rating", "flag"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tab.Index())
	assert.Equal(t, []string{"region", "rating", "flag"}, tab.Columns())

	v, err := tab.At("a", "rating")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = tab.At("b", "flag")
	require.NoError(t, err)
	assert.Nil(t, v, "pre-populated columns start unset")

	_, ok := tab.KindOf("noise")
	assert.False(t, ok)
}

func TestFromRecordsMissingIndex(t *testing.T) {
	records := [][]string{{"x"}, {"1"}}

	_, err := FromRecords(records, Details{Index: "id"}, nil)
	var unknown *ErrUnknownKey
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "id", unknown.Key)

	_, err = FromRecords(records, Details{}, nil)
	require.Error(t, err)
}

func TestFromRecordsSelector(t *testing.T) {
	records := [][]string{
		{"id", "step", "load"},
		{"n", "1", "100"},
		{"n", "2", "110"},
	}

	tab, err := FromRecords(records, Details{Index: "id", Selector: "step"},
		Uniform(segment.SeriesCache))
	require.NoError(t, err)
	assert.Equal(t, "step", tab.Cursor().Selector)
	assert.Equal(t, []string{"n", "n"}, tab.Index())
}

func TestAssemble(t *testing.T) {
	tab, err := Assemble([]Part{
		{
			Kind: segment.Input,
			Items: []Item{
				{
					Labels:  []string{"a", "b"},
					Columns: []string{"region"},
					Values:  map[string][]any{"region": {"north", "south"}},
				},
			},
		},
		{
			Kind: segment.Cache,
			Items: []Item{
				{
					Labels:  []string{"a", "b"},
					Columns: []string{"score"},
					Values:  map[string][]any{"score": {1.5, 2.5}},
				},
			},
		},
		{
			Kind: segment.Constants,
			Items: []Item{
				{Values: map[string][]any{"unit": {"MW"}}},
				{Values: map[string][]any{"unit": {"GW"}, "rate": {0.05}}},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tab.Index())

	kind, ok := tab.KindOf("region")
	require.True(t, ok)
	assert.Equal(t, segment.Input, kind)

	v, err := tab.At("a", "unit")
	require.NoError(t, err)
	assert.Equal(t, "GW", v, "later parameter items win on collision")

	v, err = tab.At("b", "rate")
	require.NoError(t, err)
	assert.Equal(t, 0.05, v)

	v, err = tab.At("b", "score")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestAssembleItemJoin(t *testing.T) {
	tab, err := Assemble([]Part{
		{
			Kind: segment.Cache,
			Items: []Item{
				{
					Labels: []string{"a", "b"},
					Values: map[string][]any{"x": {1, 2}},
				},
				{
					Labels: []string{"b", "c"},
					Values: map[string][]any{"y": {20, 30}},
					Join:   JoinInner,
				},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, tab.Index(), "inner item joins restrict the rows")
	v, err := tab.At("b", "y")
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

func TestAssembleInconsistentParameterItem(t *testing.T) {
	_, err := Assemble([]Part{
		{
			Kind: segment.Globals,
			Items: []Item{
				{Values: map[string][]any{"rate": {0.05, 0.07}}},
			},
		},
	})
	var icp *ErrInconsistentParameter
	require.ErrorAs(t, err, &icp)
	assert.Equal(t, "rate", icp.Column)
}

func TestAssembleUnknownKind(t *testing.T) {
	_, err := Assemble([]Part{{Kind: segment.Kind("bogus")}})
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestAssembleParametersOnly(t *testing.T) {
	tab, err := Assemble([]Part{
		{
			Kind:  segment.GlobalConsts,
			Items: []Item{{Values: map[string][]any{"pi": {3.14}}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, tab.Index())

	v, err := tab.At("0", "pi")
	require.NoError(t, err)
	assert.Equal(t, 3.14, v)
}
