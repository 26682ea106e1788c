package fabric

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hubailmm/pascal/pascalerr"
	"github.com/hubailmm/pascal/transport"
)

// Commander owns a transport.Fabric torus and drives it through
// func/method/set_custom_func tasks (original source: MPI_Commander).
type Commander struct {
	fab            transport.Fabric
	niProc, njProc int
	iRanges        [][2]int
	jRanges        [][2]int
	metrics        *metrics
	finalizeOnce   sync.Once

	// Verbose, when set, prints a progress line per dispatched task
	// (mirroring gofem's fem/solver.go per-stage io.Pf* banners).
	Verbose bool
}

// NewCommander spawns the torus's worker-side loops is the caller's
// responsibility (typically one goroutine per rank running
// Worker.Run against fab.Worker(rank)); NewCommander itself only
// computes the tile partition and delivers each worker's initial
// range/neighbor assignment. fab must already report
// niProc*njProc workers.
func NewCommander(ni, nj, niProc, njProc int, fab transport.Fabric) (*Commander, error) {
	return newCommander(ni, nj, niProc, njProc, fab, nil)
}

// NewCommanderWithMetrics is NewCommander with stage-dispatch counters
// registered against reg (SPEC_FULL.md §8). A nil reg disables
// metrics, identically to NewCommander.
func NewCommanderWithMetrics(ni, nj, niProc, njProc int, fab transport.Fabric, reg prometheus.Registerer) (*Commander, error) {
	return newCommander(ni, nj, niProc, njProc, fab, reg)
}

func newCommander(ni, nj, niProc, njProc int, fab transport.Fabric, reg prometheus.Registerer) (*Commander, error) {
	if want := niProc * njProc; fab.NumWorkers() != want {
		return nil, pascalerr.NewTransportError(-1, "fabric has %d workers, need %d x %d = %d", fab.NumWorkers(), niProc, njProc, want)
	}
	c := &Commander{
		fab:     fab,
		niProc:  niProc,
		njProc:  njProc,
		iRanges: splitRange(ni, niProc),
		jRanges: splitRange(nj, njProc),
		metrics: newMetrics(reg),
	}

	msgs := make([]any, niProc*njProc)
	for i, iRange := range c.iRanges {
		for j, jRange := range c.jRanges {
			rank := i*njProc + j
			msgs[rank] = firstMessage{
				I0: iRange[0], I1: iRange[1],
				J0: jRange[0], J1: jRange[1],
				Neighbors: c.neighborRanks(i, j),
			}
		}
	}
	c.fab.Scatter(msgs)
	return c, nil
}

// neighborRanks returns the torus-wrapped (x-, x+, y-, y+) ranks of
// the process-grid cell (i, j).
func (c *Commander) neighborRanks(i, j int) [4]int {
	return [4]int{
		((i+c.niProc-1)%c.niProc)*c.njProc + j,
		((i+1)%c.niProc)*c.njProc + j,
		i*c.njProc + (j+c.njProc-1)%c.njProc,
		i*c.njProc + (j+1)%c.njProc,
	}
}

// splitRange partitions [0, n) into nProc contiguous ranges as evenly
// as rounding allows (original source: MPI_Commander._i_ranges).
func splitRange(n, nProc int) [][2]int {
	bounds := make([]int, nProc+1)
	for p := 0; p <= nProc; p++ {
		bounds[p] = int(math.Round(float64(n) / float64(nProc) * float64(p)))
	}
	ranges := make([][2]int, nProc)
	for p := 0; p < nProc; p++ {
		ranges[p] = [2]int{bounds[p], bounds[p+1]}
	}
	return ranges
}

// NewKey mints a fresh, collision-free worker-variable key scoped to
// no particular Commander instance (SPEC_FULL.md §8 replaces the
// original source's process-wide global counter with a uuid, so
// multiple commanders may coexist in one process without key
// collisions).
func (c *Commander) NewKey() Key {
	return Key(uuid.NewString())
}

// Func broadcasts fn to every worker, applying it to args (after Key
// substitution) and returning each worker's result in rank order
// (original source: MPI_Commander.func with its defaults).
func (c *Commander) Func(fn any, args []any, resultKey any) ([]any, error) {
	return c.FuncReturn(fn, args, nil, resultKey, true)
}

// FuncReturn is Func with explicit kwargs and a wantResult flag: when
// false, the task is dispatched fire-and-forget and no Gather occurs.
func (c *Commander) FuncReturn(fn any, args []any, kwargs map[string]any, resultKey any, wantResult bool) ([]any, error) {
	return c.dispatchBroadcast(funcTask{Func: fn, Args: args, Kwargs: kwargs, ResultKey: resultKey, Return: wantResult}, wantResult), nil
}

// FuncNonuniformArgs scatters a distinct argument list per worker to
// the registered custom func name, one task per rank in row-major
// order (spec.md §8 "Non-uniform scatter"; original source:
// MPI_Commander.func_nonuniform_args).
func (c *Commander) FuncNonuniformArgs(name string, perWorkerArgs [][]any, resultKey Key) ([]any, error) {
	if want := c.fab.NumWorkers(); len(perWorkerArgs) != want {
		return nil, pascalerr.NewTransportError(-1, "need %d per-worker argument lists, got %d", want, len(perWorkerArgs))
	}
	tasks := make([]any, len(perWorkerArgs))
	for i, args := range perWorkerArgs {
		tasks[i] = funcTask{Func: name, Args: args, ResultKey: resultKey, Return: true}
	}
	return c.dispatchScatter(tasks), nil
}

// Method broadcasts a call to method on the stored variable variable
// (original source: MPI_Commander.method).
func (c *Commander) Method(variable Key, method string, args []any, resultKey any) ([]any, error) {
	return c.MethodReturn(variable, method, args, nil, resultKey, true)
}

// MethodReturn is Method with explicit kwargs and a wantResult flag.
func (c *Commander) MethodReturn(variable Key, method string, args []any, kwargs map[string]any, resultKey any, wantResult bool) ([]any, error) {
	return c.dispatchBroadcast(methodTask{Variable: variable, Method: method, Args: args, Kwargs: kwargs, ResultKey: resultKey, Return: wantResult}, wantResult), nil
}

// SetCustomFunc registers fn under name in every worker's custom-func
// catalog, then synchronizes on the resulting (discarded) gather.
func (c *Commander) SetCustomFunc(name string, fn Func) []any {
	return c.dispatchBroadcast(setCustomFuncTask{Name: name, Func: fn}, true)
}

// Finalize broadcasts the terminal sentinel exactly once, however
// many times it is called (spec.md §8 testable property "finalization
// idempotence"): workers exit their dispatch loop on the first
// finalize and never consume a second one.
func (c *Commander) Finalize() {
	c.finalizeOnce.Do(func() {
		c.fab.Broadcast(sentinelFinalize)
	})
}

func (c *Commander) dispatchBroadcast(task any, wantResult bool) []any {
	c.metrics.observeTask()
	if c.Verbose {
		io.Pfblue2("dispatch %T (broadcast, %d workers)\n", task, c.fab.NumWorkers())
	}
	c.fab.Broadcast(task)
	if !wantResult {
		return nil
	}
	return c.fab.Gather()
}

func (c *Commander) dispatchScatter(tasks []any) []any {
	c.metrics.observeTask()
	if c.Verbose {
		io.Pfblue2("dispatch %T (scatter, %d workers)\n", tasks[0], len(tasks))
	}
	c.fab.Scatter(tasks)
	return c.fab.Gather()
}
