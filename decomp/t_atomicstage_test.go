package decomp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hubailmm/pascal/value"
)

type addConstOp struct {
	inputs []any
	k      float64
}

func (o *addConstOp) Inputs() []any       { return o.inputs }
func (o *addConstOp) AccessNeighbor() bool { return false }
func (o *addConstOp) Perform(in []any) (any, error) {
	return in[0].(float64) + o.k, nil
}

func TestAtomicStageInvokeChain(t *testing.T) {
	a := value.NewSource(nil)
	opB := &addConstOp{inputs: []any{a}, k: 1}
	b := value.New(nil, opB)
	opC := &addConstOp{inputs: []any{b}, k: 2}
	c := value.New(nil, opC)

	stage, err := NewAtomicStage([]*value.Value{a}, []*value.Value{c})
	require.NoError(t, err)
	require.Equal(t, []*value.Value{a}, stage.Sources())
	require.Equal(t, []*value.Value{c}, stage.Sinks())

	out, err := stage.Invoke([]any{10.0}, TributaryMap{})
	require.NoError(t, err)
	require.Equal(t, []any{13.0}, out)
}

func TestAtomicStageReentrant(t *testing.T) {
	a := value.NewSource(nil)
	op := &addConstOp{inputs: []any{a}, k: 5}
	b := value.New(nil, op)
	stage, err := NewAtomicStage([]*value.Value{a}, []*value.Value{b})
	require.NoError(t, err)

	out1, err := stage.Invoke([]any{1.0}, TributaryMap{})
	require.NoError(t, err)
	out2, err := stage.Invoke([]any{100.0}, TributaryMap{})
	require.NoError(t, err)
	require.Equal(t, []any{6.0}, out1)
	require.Equal(t, []any{105.0}, out2)
}

func TestAtomicStageTributary(t *testing.T) {
	a := value.NewSource(nil)
	side := value.NewSource(nil)
	op := &addConstOp{inputs: []any{a}}
	// op reads a raw constant too: mix a Value and a raw float.
	op.inputs = []any{a, side, 2.5}
	combined := &sumOp{inputs: op.inputs}
	b := value.New(nil, combined)

	stage, err := NewAtomicStage([]*value.Value{a}, []*value.Value{b})
	require.NoError(t, err)
	require.Equal(t, []*value.Value{side}, stage.Tributaries())

	out, err := stage.Invoke([]any{1.0}, TributaryMap{side: 4.0})
	require.NoError(t, err)
	require.Equal(t, []any{7.5}, out) // 1 + 4 + 2.5
}

type sumOp struct{ inputs []any }

func (o *sumOp) Inputs() []any        { return o.inputs }
func (o *sumOp) AccessNeighbor() bool { return false }
func (o *sumOp) Perform(in []any) (any, error) {
	total := 0.0
	for _, x := range in {
		total += x.(float64)
	}
	return total, nil
}

func TestAtomicStageRejectsWrongSourceCount(t *testing.T) {
	a := value.NewSource(nil)
	stage, err := NewAtomicStage([]*value.Value{a}, []*value.Value{a})
	require.NoError(t, err)
	_, err = stage.Invoke([]any{}, TributaryMap{})
	require.Error(t, err)
}
