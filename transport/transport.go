// Package transport provides the commander/worker collective
// primitive spec.md §1 calls out as out of scope ("the underlying
// message-passing transport... treated as a black-box collective
// primitive"): a Fabric interface with broadcast, scatter, gather and
// point-to-point halo send/receive, and one concrete in-process
// implementation (Local) built on goroutines and channels. A real
// multi-process deployment would satisfy the same interface with a
// github.com/cpmech/gosl/mpi-backed implementation without touching
// fabric.Commander or fabric.Worker.
package transport

// Fabric is the commander-side handle onto a 2D torus of workers.
type Fabric interface {
	// NumWorkers returns the number of workers in the torus (NI*NJ).
	NumWorkers() int

	// Broadcast sends msg to every worker and returns once every
	// worker has received it.
	Broadcast(msg any)

	// Scatter deals msgs out one per worker in row-major rank order.
	// len(msgs) must equal NumWorkers(). Scatter implicitly precedes
	// delivery with the broadcast sentinel a worker needs to know a
	// scatter (rather than a broadcast) is coming, per spec §4.E.
	Scatter(msgs []any)

	// Gather blocks until every worker has replied once (via
	// WorkerPort.Reply) since the last Broadcast/Scatter, and returns
	// their replies in rank order.
	Gather() []any

	// Worker returns the worker-side port for rank.
	Worker(rank int) WorkerPort
}

// WorkerPort is the worker-side handle onto the torus.
type WorkerPort interface {
	// Rank returns this port's worker rank.
	Rank() int

	// Recv blocks for the next broadcast or scattered message.
	Recv() any

	// Reply contributes val to the commander's next Gather. Workers
	// that were not asked to return a result simply do not call Reply
	// for that task.
	Reply(val any)

	// SendHalo posts (non-blocking, per spec §5) a border strip to the
	// worker at rank to. data is not retained after the call returns.
	SendHalo(to int, data []float64)

	// RecvHalo blocks until the worker at rank from posts a border
	// strip via SendHalo(thisRank, ...), and returns it.
	RecvHalo(from int) []float64
}
