package segtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracturedlabs/segtab/segment"
)

func TestColumnSpecAssign(t *testing.T) {
	spec := NewColumnSpec().
		Assign(segment.Input, "a", "b").
		Assign(segment.Cache, "c")

	assert.Equal(t, []segment.Kind{segment.Input, segment.Cache}, spec.Kinds())
	assert.Equal(t, []string{"a", "b"}, spec.Columns(segment.Input))
	assert.Equal(t, []string{"a", "b", "c"}, spec.AllColumns())

	kind, ok := spec.KindOf("c")
	require.True(t, ok)
	assert.Equal(t, segment.Cache, kind)

	_, ok = spec.KindOf("zz")
	assert.False(t, ok)
}

func TestColumnSpecReassign(t *testing.T) {
	spec := NewColumnSpec().
		Assign(segment.Input, "a").
		Assign(segment.Cache, "a")

	require.Error(t, spec.Validate(), "one column cannot live in two kinds")
}

func TestColumnSpecValidateUnknownKind(t *testing.T) {
	spec := NewColumnSpec().Assign(segment.Kind("bogus"), "a")
	require.ErrorIs(t, spec.Validate(), ErrUnknownKind)
}

func TestColumnSpecClone(t *testing.T) {
	spec := NewColumnSpec().Assign(segment.Input, "a")
	clone := spec.Clone()
	clone.Assign(segment.Cache, "b")

	_, ok := spec.KindOf("b")
	assert.False(t, ok, "clones are independent")
	assert.False(t, spec.Equal(clone))
	assert.True(t, spec.Equal(spec.Clone()))
}

func TestUniformResolve(t *testing.T) {
	resolved := Uniform(segment.Output).resolve([]string{"x", "y"}, segment.Cache)

	for _, c := range []string{"x", "y"} {
		kind, ok := resolved.KindOf(c)
		require.True(t, ok)
		assert.Equal(t, segment.Output, kind)
	}
}

func TestResolveRoutesUnassignedToDefault(t *testing.T) {
	spec := NewColumnSpec().Assign(segment.Input, "x")
	resolved := spec.resolve([]string{"x", "extra"}, segment.Cache)

	kind, ok := resolved.KindOf("extra")
	require.True(t, ok)
	assert.Equal(t, segment.Cache, kind)
}

func TestAbsentSpecColumnsDroppedAtConstruction(t *testing.T) {
	spec := NewColumnSpec().Assign(segment.Input, "x", "ghost")
	tab, err := New(nil, []string{"x"}, map[string][]any{"x": {1}}, spec)
	require.NoError(t, err)

	_, ok := tab.KindOf("ghost")
	assert.False(t, ok, "spec entries without backing data leave the table spec")
}
