// Package fabric implements the commander/worker execution substrate
// (spec.md §4.E): a 2D-toroidal mesh of workers, each owning a tile
// plus one-cell halo of a logical (ni, nj) grid, driven by a
// Commander that dispatches func/method tasks. Each Worker performs
// halo exchange with its neighbors whenever a result it produced
// lacks ghost cells.
//
// Grounded directly on original_source/mpi_worker_commander.py's
// MPI_Commander/MPI_Worker pair; the transport.Fabric interface
// replaces mpi4py's spawned-process collective calls (spec.md §1's
// black-box transport boundary).
package fabric

import "fmt"

// Key is an opaque handle onto a value stored in every worker's
// variable store (original source: WorkerVariable). Two Keys compare
// equal iff they name the same variable.
type Key string

// Predefined keys seeded into every worker's variable store at
// construction (spec.md §3 "builtin" Values: ZERO, I, J). The
// original source's third builtin K is not carried forward — this
// engine's grid is two-dimensional only.
const (
	KeyI    Key = "i"
	KeyJ    Key = "j"
	KeyZero Key = "_z"
)

// Func is a worker-resident callable: the Go counterpart of a task's
// "func" argument, whether a bare operator (operator.add), a
// ufunc-style builtin (np.sin), or a user closure registered via
// SetCustomFunc. Args and Kwargs have already had every Key
// substituted for its stored variable by the time Func is invoked.
type Func func(args []any, kwargs map[string]any) (any, error)

func (k Key) String() string { return fmt.Sprintf("Key(%s)", string(k)) }
