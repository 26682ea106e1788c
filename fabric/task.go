package fabric

// Sentinel broadcast values a worker's main loop distinguishes from an
// ordinary task descriptor (spec.md §4.E, mirroring
// mpi_worker_commander.py's mpi_worker_main: 'finalize' | 'scatter' |
// a (method_name, args, return_result) triple).
const (
	sentinelFinalize = "finalize"
	sentinelScatter  = "scatter"
)

// firstMessage is the worker's one-time initialization payload,
// delivered through the same Scatter primitive as every later task
// (mpi_worker_commander.py instead opens a dedicated point-to-point
// recv at spawn time; reusing Scatter here avoids a second primitive
// in the Fabric interface for a message shape that occurs exactly
// once per worker lifetime).
type firstMessage struct {
	I0, I1, J0, J1 int
	Neighbors      [4]int
}

// funcTask asks a worker to resolve Func (a registered name, or a
// fabric.Func value passed directly) and apply it to Args/Kwargs
// after substituting any Key, storing or returning the result per
// ResultKey (spec.md §4.E "func").
type funcTask struct {
	Func      any
	Args      []any
	Kwargs    map[string]any
	ResultKey any
	Return    bool
}

// methodTask asks a worker to invoke Method on the stored variable
// Variable (spec.md §4.E "method").
type methodTask struct {
	Variable  Key
	Method    string
	Args      []any
	Kwargs    map[string]any
	ResultKey any
	Return    bool
}

// setCustomFuncTask registers Func under Name in every worker's
// custom-function catalog (spec.md §4.E "set_custom_func"). The
// original source serializes the callable with dill for cross-process
// transfer; this module's in-process transport carries the Go func
// value directly, which is the "safe mechanism" spec.md §9 leaves to
// the implementation in place of arbitrary closure deserialization.
type setCustomFuncTask struct {
	Name string
	Func Func
}
