package segtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracturedlabs/segtab/segment"
)

func TestAt(t *testing.T) {
	tab := fixtureTable(t)

	v, err := tab.At("a", "score")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = tab.At("b", "unit")
	require.NoError(t, err)
	assert.Equal(t, "MW", v, "parameter reads broadcast regardless of row")

	_, err = tab.At("a", "nope")
	var unknown *ErrUnknownKey
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Key)

	_, err = tab.At("zz", "score")
	require.ErrorAs(t, err, &unknown)
}

func TestSetAt(t *testing.T) {
	tab := fixtureTable(t)

	require.NoError(t, tab.SetAt("a", "score", 9.0))
	v, err := tab.At("a", "score")
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)

	err = tab.SetAt("a", "region", "west")
	var imm *ErrImmutableColumn
	require.ErrorAs(t, err, &imm)
	assert.Equal(t, "region", imm.Column)
	assert.Equal(t, segment.Input, imm.Kind)

	err = tab.SetAt("a", "unit", "GW")
	var pnm *ErrParameterNotCellMutable
	require.ErrorAs(t, err, &pnm)
	assert.Equal(t, "unit", pnm.Column)
}

func TestLoc(t *testing.T) {
	tab := fixtureTable(t)

	sub, err := tab.Loc(ByLabel("b"), ByLabel("region", "score"))
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, sub.Index())
	assert.Equal(t, []string{"region", "score"}, sub.Columns())

	kind, ok := sub.KindOf("region")
	require.True(t, ok)
	assert.Equal(t, segment.Input, kind, "selection keeps column kinds")
	_, ok = sub.KindOf("unit")
	assert.False(t, ok, "unselected columns leave the spec")

	v, err := sub.At("b", "score")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestLocNilSelectorsSelectEverything(t *testing.T) {
	tab := fixtureTable(t)

	sub, err := tab.Loc(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, tab.Index(), sub.Index())
	assert.Equal(t, tab.Columns(), sub.Columns())
}

func TestLocRange(t *testing.T) {
	tab, err := New([]string{"1", "2", "3"}, []string{"x"},
		map[string][]any{"x": {10, 20, 30}}, nil)
	require.NoError(t, err)

	sub, err := tab.Loc(ByRange("1", "2"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, sub.Index(), "label ranges are inclusive")
}

func TestLocUnknownLabel(t *testing.T) {
	tab := fixtureTable(t)

	_, err := tab.Loc(ByLabel("missing"), nil)
	var unknown *ErrUnknownKey
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Key)
}

func TestSetLoc(t *testing.T) {
	tab := fixtureTable(t)

	t.Run("ScalarBroadcast", func(t *testing.T) {
		require.NoError(t, tab.SetLoc(nil, ByLabel("score"), 7.0))
		for _, row := range tab.Index() {
			v, err := tab.At(row, "score")
			require.NoError(t, err)
			assert.Equal(t, 7.0, v)
		}
	})

	t.Run("Vector", func(t *testing.T) {
		require.NoError(t, tab.SetLoc(nil, ByLabel("score"), []any{3.0, 4.0}))
		v, err := tab.At("b", "score")
		require.NoError(t, err)
		assert.Equal(t, 4.0, v)
	})

	t.Run("ParameterStaysUniform", func(t *testing.T) {
		require.NoError(t, tab.SetLoc(nil, ByLabel("unit"), "GW"))
		v, err := tab.At("a", "unit")
		require.NoError(t, err)
		assert.Equal(t, "GW", v)
	})

	t.Run("ParameterRejectsMixedBlock", func(t *testing.T) {
		err := tab.SetLoc(nil, ByLabel("unit"), []any{"GW", "TW"})
		var icp *ErrInconsistentParameter
		require.ErrorAs(t, err, &icp)
	})

	t.Run("Immutable", func(t *testing.T) {
		err := tab.SetLoc(nil, ByLabel("region"), "west")
		var imm *ErrImmutableColumn
		require.ErrorAs(t, err, &imm)
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		err := tab.SetLoc(nil, ByLabel("score"), []any{1.0, 2.0, 3.0})
		var shape *ErrIncompatibleShape
		require.ErrorAs(t, err, &shape)
		assert.Equal(t, 2, shape.WantRows)
	})
}

func TestILoc(t *testing.T) {
	tab := fixtureTable(t)

	sub, err := tab.ILoc(ByPos(1), ByPosRange(0, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, sub.Index())
	assert.Equal(t, []string{"region", "unit"}, sub.Columns())

	_, err = tab.ILoc(ByPos(9), nil)
	require.Error(t, err)

	_, err = tab.ILoc(ByLabel("a"), nil)
	require.Error(t, err, "position accessor rejects label selectors")
}

func TestSetILoc(t *testing.T) {
	tab := fixtureTable(t)

	require.NoError(t, tab.SetILoc(ByPos(0), ByPos(2), 8.5))
	v, err := tab.At("a", "score")
	require.NoError(t, err)
	assert.Equal(t, 8.5, v)
}
