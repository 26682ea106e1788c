package fabric

import (
	"github.com/hubailmm/pascal/pascalerr"
	"github.com/hubailmm/pascal/tile"
	"github.com/hubailmm/pascal/transport"
)

// tileMethods enumerates the no-argument tile.Array accessors the
// "method" task kind may invoke by name. The original source's
// method(variable, method_name, ...) uses Python's getattr to reach
// any method a numpy array happens to have; Go has no equivalent
// dynamic dispatch, so the worker instead consults a fixed table
// grounded on the methods original_source actually exercises
// ('sum', 'shape', via np.ndarray).
var tileMethods = map[string]func(a *tile.Array, args []any) (any, error){
	"sum":   func(a *tile.Array, _ []any) (any, error) { return a.Sum(), nil },
	"max":   func(a *tile.Array, _ []any) (any, error) { return a.Max(), nil },
	"min":   func(a *tile.Array, _ []any) (any, error) { return a.Min(), nil },
	"shape": func(a *tile.Array, _ []any) (any, error) { return append([]int(nil), a.Shape...), nil },
	"copy":  func(a *tile.Array, _ []any) (any, error) { return a.Copy(), nil },
}

// Worker is the per-rank execution state: the tile's coordinate
// arrays, its torus neighbors, and the keyed variable store (original
// source: MPI_Worker).
type Worker struct {
	rank        int
	port        transport.WorkerPort
	ni, nj      int
	neighbors   [4]int // x-, x+, y-, y+
	variables   map[Key]*tile.Array
	customFuncs map[string]Func
}

// NewWorker returns a Worker bound to port. Call Run to enter its
// dispatch loop; Run blocks until a "finalize" broadcast arrives.
func NewWorker(rank int, port transport.WorkerPort) *Worker {
	return &Worker{rank: rank, port: port}
}

// Run receives the worker's tile assignment, then services tasks
// until finalized (spec.md §4.E worker state diagram: idle ->
// dispatching -> idle, ... -> terminated).
func (w *Worker) Run() error {
	sentinel, ok := w.port.Recv().(string)
	if !ok || sentinel != sentinelScatter {
		return pascalerr.NewProtocolError(w.rank, "expected initial scatter sentinel, got %v", sentinel)
	}
	first, ok := w.port.Recv().(firstMessage)
	if !ok {
		return pascalerr.NewProtocolError(w.rank, "expected firstMessage as initial scattered payload")
	}
	w.init(first)

	for {
		msg := w.port.Recv()
		sentinel, isString := msg.(string)
		if !isString {
			if err := w.dispatch(msg); err != nil {
				return err
			}
			continue
		}
		switch sentinel {
		case sentinelFinalize:
			return nil
		case sentinelScatter:
			task := w.port.Recv()
			if err := w.dispatch(task); err != nil {
				return err
			}
		default:
			return pascalerr.NewProtocolError(w.rank, "unrecognized broadcast sentinel %q", sentinel)
		}
	}
}

func (w *Worker) init(first firstMessage) {
	ni := first.I1 - first.I0
	nj := first.J1 - first.J0
	w.ni, w.nj = ni, nj
	w.neighbors = first.Neighbors

	i := tile.New([]int{ni + 2, nj + 2})
	j := tile.New([]int{ni + 2, nj + 2})
	for r := 0; r < ni+2; r++ {
		for c := 0; c < nj+2; c++ {
			idx := r*(nj+2) + c
			i.Data[idx] = float64(first.I0 - 1 + r)
			j.Data[idx] = float64(first.J0 - 1 + c)
		}
	}
	w.variables = map[Key]*tile.Array{
		KeyI:    i,
		KeyJ:    j,
		KeyZero: tile.New([]int{ni + 2, nj + 2}),
	}
	w.customFuncs = map[string]Func{}
}

func (w *Worker) dispatch(task any) error {
	switch t := task.(type) {
	case funcTask:
		result, err := w.runFunc(t)
		if err != nil {
			return err
		}
		return w.reply(t.Return, result)
	case methodTask:
		result, err := w.runMethod(t)
		if err != nil {
			return err
		}
		return w.reply(t.Return, result)
	case setCustomFuncTask:
		w.customFuncs[t.Name] = t.Func
		return w.reply(true, nil)
	default:
		return pascalerr.NewProtocolError(w.rank, "unrecognized task type %T", task)
	}
}

func (w *Worker) reply(wanted bool, val any) error {
	if wanted {
		w.port.Reply(val)
	}
	return nil
}

func (w *Worker) runFunc(t funcTask) (any, error) {
	fn, err := w.resolveFunc(t.Func)
	if err != nil {
		return nil, err
	}
	args := w.substituteArgs(t.Args)
	kwargs := w.substituteKwargs(t.Kwargs)
	result, err := fn(args, kwargs)
	if err != nil {
		return nil, err
	}
	return w.updateResult(result, t.ResultKey)
}

func (w *Worker) runMethod(t methodTask) (any, error) {
	v, ok := w.variables[t.Variable]
	if !ok {
		return nil, pascalerr.NewProtocolError(w.rank, "no such variable: %v", t.Variable)
	}
	method, ok := tileMethods[t.Method]
	if !ok {
		return nil, pascalerr.NewProtocolError(w.rank, "worker has no method named %q", t.Method)
	}
	args := w.substituteArgs(t.Args)
	result, err := method(v, args)
	if err != nil {
		return nil, err
	}
	return w.updateResult(result, t.ResultKey)
}

func (w *Worker) resolveFunc(f any) (Func, error) {
	switch v := f.(type) {
	case Func:
		return v, nil
	case string:
		fn, ok := w.customFuncs[v]
		if !ok {
			return nil, pascalerr.NewProtocolError(w.rank, "no custom func registered under name %q", v)
		}
		return fn, nil
	default:
		return nil, pascalerr.NewProtocolError(w.rank, "func must be a fabric.Func or a registered name, got %T", f)
	}
}

func (w *Worker) substituteArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if k, ok := a.(Key); ok {
			out[i] = w.variables[k]
		} else {
			out[i] = a
		}
	}
	return out
}

// substituteKwargs replaces every Key-valued entry of kwargs with its
// stored variable, keyed correctly (the original source's
// _substitute_kwargs reads the wrong loop variable and a nonexistent
// '.keys' attribute -- spec.md §9's Open Question -- this is the
// intended, bug-fixed contract).
func (w *Worker) substituteKwargs(kwargs map[string]any) map[string]any {
	if kwargs == nil {
		return nil
	}
	out := make(map[string]any, len(kwargs))
	for name, a := range kwargs {
		if k, ok := a.(Key); ok {
			out[name] = w.variables[k]
		} else {
			out[name] = a
		}
	}
	return out
}

// updateResult implements the original source's _update_result: a
// nil resultKey returns result directly (for gathering), a []Key
// recurses elementwise over a tuple result, and a single Key stores
// result into the variable store -- performing halo exchange first if
// result lacks ghost cells (spec.md §4.E, §9 "Result shape
// discipline").
func (w *Worker) updateResult(result any, resultKey any) (any, error) {
	switch rk := resultKey.(type) {
	case nil:
		return result, nil
	case []Key:
		results, ok := result.([]any)
		if !ok || len(results) != len(rk) {
			return nil, pascalerr.NewShapeError(w.rank, "expected a %d-element tuple result, got %T", len(rk), result)
		}
		for i, key := range rk {
			if _, err := w.updateResult(results[i], key); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case Key:
		arr, ok := result.(*tile.Array)
		if !ok {
			return nil, pascalerr.NewShapeError(w.rank, "expected a *tile.Array result, got %T", result)
		}
		ni, nj := arr.Leading()
		switch {
		case ni == w.ni+2 && nj == w.nj+2:
			w.variables[rk] = arr
		case ni == w.ni && nj == w.nj:
			haloed, err := w.exchangeHalo(arr)
			if err != nil {
				return nil, err
			}
			w.variables[rk] = haloed
		default:
			return nil, pascalerr.NewShapeError(w.rank,
				"result shape (%d,%d) matches neither the tile (%d,%d) nor its haloed form (%d,%d)",
				ni, nj, w.ni, w.nj, w.ni+2, w.nj+2)
		}
		return nil, nil
	default:
		return nil, pascalerr.NewProtocolError(w.rank, "result key must be nil, a Key, or a []Key, got %T", resultKey)
	}
}

// exchangeHalo posts this tile's four border strips to its torus
// neighbors and receives theirs in turn, returning a padded array
// whose corners are left at 1 (original source: _update_result_neighbor,
// np.ones scratch buffer).
func (w *Worker) exchangeHalo(interior *tile.Array) (*tile.Array, error) {
	xm, xp, ym, yp := w.neighbors[0], w.neighbors[1], w.neighbors[2], w.neighbors[3]

	w.port.SendHalo(xm, interior.Row(0))
	w.port.SendHalo(xp, interior.Row(w.ni-1))
	w.port.SendHalo(ym, interior.Col(0))
	w.port.SendHalo(yp, interior.Col(w.nj-1))

	padded := tile.Pad(interior)
	padded.SetRowSegment(0, 1, w.port.RecvHalo(xm))
	padded.SetRowSegment(w.ni+1, 1, w.port.RecvHalo(xp))
	padded.SetColSegment(0, 1, w.port.RecvHalo(ym))
	padded.SetColSegment(w.nj+1, 1, w.port.RecvHalo(yp))
	return padded, nil
}
