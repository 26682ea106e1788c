package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeOp struct {
	inputs   []any
	neighbor bool
}

func (o *fakeOp) Inputs() []any                     { return o.inputs }
func (o *fakeOp) AccessNeighbor() bool              { return o.neighbor }
func (o *fakeOp) Perform(inputs []any) (any, error) { return nil, nil }

func TestSourceHasNoOwner(t *testing.T) {
	v := NewSource([]int{8, 8})
	require.True(t, v.IsSource())
	require.Nil(t, v.Owner())
	require.Equal(t, 2, v.Ndim())
	require.Equal(t, 64, v.Size())
}

func TestScalarSize(t *testing.T) {
	v := NewSource(nil)
	require.Equal(t, 0, v.Ndim())
	require.Equal(t, 1, v.Size())
}

func TestDerivedValueHasOwner(t *testing.T) {
	a := NewSource([]int{4, 4})
	op := &fakeOp{inputs: []any{a}, neighbor: true}
	b := New([]int{4, 4}, op)
	require.False(t, b.IsSource())
	require.Same(t, op, b.Owner())
	require.True(t, b.Owner().AccessNeighbor())
}

func TestIdentityNotStructuralEquality(t *testing.T) {
	a := NewSource([]int{2, 2})
	b := NewSource([]int{2, 2})
	require.NotSame(t, a, b)

	set := map[*Value]bool{a: true}
	require.True(t, set[a])
	require.False(t, set[b])
}

func TestBuiltinsAreDistinctSources(t *testing.T) {
	require.True(t, ZERO.IsSource())
	require.True(t, I.IsSource())
	require.True(t, J.IsSource())
	require.NotSame(t, ZERO, I)
	require.NotSame(t, I, J)
}
