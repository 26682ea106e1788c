package fabric_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hubailmm/pascal/fabric"
	"github.com/hubailmm/pascal/ops"
	"github.com/hubailmm/pascal/tile"
	"github.com/hubailmm/pascal/transport"
)

// torus spawns niProc*njProc Worker goroutines over a fresh Local
// fabric and the Commander driving them, mirroring the original
// source's doctest:
//
//	>>> comm = MPI_Commander(100, 100, 2, 2)
//	>>> i, j = WorkerVariable('i'), WorkerVariable('j')
//	>>> i_plus_j = WorkerVariable()
//	>>> comm.func(operator.add, (i, j), result_var=i_plus_j)
//	[None, None, None, None]
//	>>> comm.func(np.shape, (i_plus_j,))
//	[(52, 52), (52, 52), (52, 52), (52, 52)]
//	>>> comm.method(i_plus_j, 'sum')
//	[132496.0, 267696.0, 267696.0, 402896.0]
func torus(t *testing.T, ni, nj, niProc, njProc int) (*fabric.Commander, func()) {
	t.Helper()
	n := niProc * njProc
	local := transport.NewLocal(n)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for rank := 0; rank < n; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			w := fabric.NewWorker(rank, local.Worker(rank))
			if err := w.Run(); err != nil {
				errs <- err
			}
		}(rank)
	}

	c, err := fabric.NewCommander(ni, nj, niProc, njProc, local)
	require.NoError(t, err)
	return c, func() {
		c.Finalize()
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("worker error: %v", err)
		}
	}
}

func TestWorkedExampleIPlusJ(t *testing.T) {
	c, done := torus(t, 100, 100, 2, 2)
	defer done()

	iPlusJ := c.NewKey()
	_, err := c.Func(ops.Add, []any{fabric.KeyI, fabric.KeyJ}, iPlusJ)
	require.NoError(t, err)

	shapes, err := c.Func(ops.Shape, []any{iPlusJ}, nil)
	require.NoError(t, err)
	for _, s := range shapes {
		require.Equal(t, []int{52, 52}, s)
	}

	sums, err := c.Method(iPlusJ, "sum", nil, nil)
	require.NoError(t, err)
	want := []float64{132496, 267696, 267696, 402896}
	for i, s := range sums {
		require.InDelta(t, want[i], s.(float64), 1e-6)
	}
}

func TestAddOneScenario(t *testing.T) {
	c, done := torus(t, 8, 8, 2, 2)
	defer done()

	c.SetCustomFunc("add_one", ops.AddOne)
	ip1 := c.NewKey()
	_, err := c.Func("add_one", []any{fabric.KeyI}, ip1)
	require.NoError(t, err)

	sums, err := c.Func(ops.Sum, []any{ip1}, nil)
	require.NoError(t, err)
	want := []float64{90, 90, 234, 234}
	for i, s := range sums {
		require.InDelta(t, want[i], s.(float64), 1e-9)
	}
}

func TestDoubleTripleScenario(t *testing.T) {
	c, done := torus(t, 8, 8, 2, 2)
	defer done()

	c.SetCustomFunc("double_triple", ops.DoubleTriple)
	jDouble, jTriple := c.NewKey(), c.NewKey()
	_, err := c.Func("double_triple", []any{fabric.KeyJ}, []fabric.Key{jDouble, jTriple})
	require.NoError(t, err)

	doubleMax, err := c.Func(ops.Max, []any{jDouble}, nil)
	require.NoError(t, err)
	tripleMax, err := c.Func(ops.Max, []any{jTriple}, nil)
	require.NoError(t, err)

	wantDouble := []float64{8, 16, 8, 16}
	wantTriple := []float64{12, 24, 12, 24}
	for i := range doubleMax {
		require.InDelta(t, wantDouble[i], doubleMax[i].(float64), 1e-9)
		require.InDelta(t, wantTriple[i], tripleMax[i].(float64), 1e-9)
	}
}

func TestNonuniformScatterScenario(t *testing.T) {
	c, done := torus(t, 4, 8, 1, 2)
	defer done()

	// original source: make_worker_variable(z, x) = x + z.reshape(z.shape
	// + (1,)*x.ndim) -- z (the ZERO builtin) broadcasts against x, so
	// with z all-zero every grid cell's payload is simply a copy of x.
	c.SetCustomFunc("make_worker_variable", func(args []any, _ map[string]any) (any, error) {
		z := args[0].(*tile.Array)
		x := args[1].(*tile.Array)
		ni, nj := z.Leading()
		out := tile.New(append([]int{ni, nj}, x.Shape...))
		ts := len(x.Data)
		for cell := 0; cell < ni*nj; cell++ {
			copy(out.Data[cell*ts:(cell+1)*ts], x.Data)
		}
		return out, nil
	})

	z34 := c.NewKey()
	perWorker := [][]any{
		{fabric.KeyZero, tile.New([]int{3, 4})},
		{fabric.KeyZero, tile.Full([]int{3, 4}, 1)},
	}
	_, err := c.FuncNonuniformArgs("make_worker_variable", perWorker, z34)
	require.NoError(t, err)

	maxes, err := c.Func(ops.Max, []any{z34}, nil)
	require.NoError(t, err)
	mins, err := c.Func(ops.Min, []any{z34}, nil)
	require.NoError(t, err)
	require.InDelta(t, 0, maxes[0].(float64), 1e-9)
	require.InDelta(t, 0, mins[0].(float64), 1e-9)
	require.InDelta(t, 1, maxes[1].(float64), 1e-9)
	require.InDelta(t, 1, mins[1].(float64), 1e-9)
}

func TestElementwiseThenCopyScenario(t *testing.T) {
	c, done := torus(t, 4, 8, 1, 2)
	defer done()

	sinJ := c.NewKey()
	_, err := c.Func(ops.Sin, []any{fabric.KeyJ}, sinJ)
	require.NoError(t, err)
	_, err = c.Func(ops.Copy, []any{sinJ}, sinJ)
	require.NoError(t, err)

	maxes, err := c.Func(ops.Max, []any{sinJ}, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.90929742682568171, maxes[0].(float64), 1e-9)
	require.InDelta(t, 0.98935824662338179, maxes[1].(float64), 1e-9)
}

// TestHaloCorrectness asserts spec.md §8 testable property 3: a stored
// result's border strips equal the corresponding interior strip of the
// actual torus neighbor in that direction. Each worker's interior is
// filled with a distinct, rank-derived constant (via
// FuncNonuniformArgs) so the stored halo can be checked against the
// exact value each neighbor rank produced, independently computed here
// from the same process-grid topology the commander uses -- a swapped
// axis in the halo wiring would show up as a wrong constant. On this
// 2x2 process grid a worker's x- and x+ neighbors are the same rank
// (likewise y- and y+), so both strips from one neighbor carry the
// same constant and their relative order is not checked here.
func TestHaloCorrectness(t *testing.T) {
	niProc, njProc := 2, 2
	c, done := torus(t, 4, 4, niProc, njProc)
	defer done()

	c.SetCustomFunc("fill_rank", func(args []any, _ map[string]any) (any, error) {
		val := args[0].(float64)
		ni := int(args[1].(float64))
		nj := int(args[2].(float64))
		return tile.Full([]int{ni, nj}, val), nil
	})

	// tile interior is 2x2 for a 4x4 grid split 2x2; offset values by
	// 100 so they never collide with Pad's corner placeholder of 1.
	perWorker := make([][]any, niProc*njProc)
	for rank := range perWorker {
		perWorker[rank] = []any{100.0 + float64(rank), 2.0, 2.0}
	}
	filled := c.NewKey()
	_, err := c.FuncNonuniformArgs("fill_rank", perWorker, filled)
	require.NoError(t, err)

	haloed, err := c.Func(ops.Copy, []any{filled}, nil)
	require.NoError(t, err)

	neighborRanks := func(rank int) (xm, xp, ym, yp int) {
		i, j := rank/njProc, rank%njProc
		xm = ((i-1+niProc)%niProc)*njProc + j
		xp = ((i+1)%niProc)*njProc + j
		ym = i*njProc + (j-1+njProc)%njProc
		yp = i*njProc + (j+1)%njProc
		return
	}

	for rank, got := range haloed {
		arr := got.(*tile.Array)
		ni, nj := 2, 2
		xm, xp, ym, yp := neighborRanks(rank)
		require.Equal(t, []float64{100 + float64(xm), 100 + float64(xm)}, arr.Row(0)[1:1+nj])
		require.Equal(t, []float64{100 + float64(xp), 100 + float64(xp)}, arr.Row(ni+1)[1:1+nj])
		require.Equal(t, []float64{100 + float64(ym), 100 + float64(ym)}, arr.Col(0)[1:1+ni])
		require.Equal(t, []float64{100 + float64(yp), 100 + float64(yp)}, arr.Col(nj+1)[1:1+ni])
	}
}

// TestVariableIdentity asserts spec.md §8 testable property 4:
// pre-seeded keys are present at worker start and repeated lookups
// return the most recently stored tile.
func TestVariableIdentity(t *testing.T) {
	c, done := torus(t, 4, 4, 1, 1)
	defer done()

	shapes, err := c.Func(ops.Shape, []any{fabric.KeyZero}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{6, 6}, shapes[0])

	key := c.NewKey()
	_, err = c.Func(ops.Copy, []any{fabric.KeyI}, key)
	require.NoError(t, err)
	first, err := c.Func(ops.Sum, []any{key}, nil)
	require.NoError(t, err)

	c.SetCustomFunc("add_one_again", ops.AddOne)
	_, err = c.Func("add_one_again", []any{key}, key)
	require.NoError(t, err)
	second, err := c.Func(ops.Sum, []any{key}, nil)
	require.NoError(t, err)
	require.NotEqual(t, first[0], second[0])
}

// TestTilingPartition asserts spec.md §8 testable property 5: the
// union of interior regions tiles the global grid exactly.
func TestTilingPartition(t *testing.T) {
	c, done := torus(t, 7, 5, 3, 2)
	defer done()

	shapes, err := c.Func(ops.Shape, []any{fabric.KeyI}, nil)
	require.NoError(t, err)
	area := 0
	for _, s := range shapes {
		dims := s.([]int)
		area += (dims[0] - 2) * (dims[1] - 2)
	}
	require.Equal(t, 7*5, area)
}

// TestFinalizationIdempotence asserts spec.md §8 testable property 6.
func TestFinalizationIdempotence(t *testing.T) {
	c, done := torus(t, 2, 2, 1, 1)
	done()
	require.NotPanics(t, func() { c.Finalize() })
}
