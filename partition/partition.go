// Package partition invokes the external graph partitioner (spec §6)
// that assigns create/discard stages to decomposer vertices, or falls
// back to a pure-Go greedy partitioner when no external binary is
// configured.
package partition

// Edge is one directed edge of the decomposer's partition graph: u
// produces an input consumed by v, and Stencil is the AccessNeighbor
// flag of the operation that produces v (the consumer of u).
type Edge struct {
	U, V    int
	Stencil bool
}

// Partitioner assigns each of numVertices non-synthetic vertices a
// (create, discard) stage window. The synthetic sink vertex (id
// numVertices) is not part of the input or output arrays; weights has
// length numVertices+1 (its last entry, for the synthetic sink, is
// always 1).
//
// Returned c, d, e each have length numVertices: c[i] <= d[i] is the
// create/discard stage for vertex i; e is the partitioner's edge tag
// output and is unused by the decomposer (spec §4.C step 4).
type Partitioner interface {
	Run(weights []int, edges []Edge) (c, d, e []int, err error)
}

// New returns a subprocess Partitioner invoking the executable at
// path, or a Greedy fallback when path is empty.
func New(path string) Partitioner {
	if path == "" {
		return Greedy{}
	}
	return Subprocess{Path: path}
}
