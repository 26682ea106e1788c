package partition

import "github.com/hubailmm/pascal/pascalerr"

// Greedy is a pure-Go fallback Partitioner used when no external
// partitioner binary is configured (unit tests, or environments
// without the real tool installed). It does not attempt to minimize
// the number of stages or the volume of cross-stage traffic the way a
// real partitioner (e.g. quarkflow, spec §6) would; it only produces a
// structurally valid create/discard assignment: every vertex is
// created no earlier than one stage after its last stencil-consumed
// input (to keep halo-triggering dependencies at a stage boundary) and
// discarded no earlier than the last stage that still needs it.
//
// Vertex ids are not assumed to be in topological order (the
// decomposer numbers internal values in discovery order, which walks
// backward from sinks) so Greedy processes the graph with an explicit
// in-degree (Kahn-style) sweep rather than a single id-ordered pass.
type Greedy struct{}

// Run implements Partitioner.
func (Greedy) Run(weights []int, edges []Edge) (c, d, e []int, err error) {
	numVertices := len(weights) - 1
	incoming := make([][]Edge, numVertices)
	outgoing := make([][]int, numVertices)
	indegree := make([]int, numVertices)
	for _, edge := range edges {
		incoming[edge.V] = append(incoming[edge.V], edge)
		outgoing[edge.U] = append(outgoing[edge.U], edge.V)
		indegree[edge.V]++
	}

	c = make([]int, numVertices)
	d = make([]int, numVertices)
	e = make([]int, numVertices)

	remaining := append([]int(nil), indegree...)
	ready := make([]int, 0, numVertices)
	for v := 0; v < numVertices; v++ {
		if remaining[v] == 0 {
			ready = append(ready, v)
		}
	}
	visited := make([]bool, numVertices)
	processed := 0
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		if visited[v] {
			continue
		}
		visited[v] = true
		processed++

		create := 0
		for _, edge := range incoming[v] {
			candidate := c[edge.U]
			if edge.Stencil {
				candidate++
			}
			if candidate > create {
				create = candidate
			}
		}
		c[v] = create

		for _, next := range outgoing[v] {
			remaining[next]--
			if remaining[next] == 0 {
				ready = append(ready, next)
			}
		}
	}
	if processed != numVertices {
		return nil, nil, nil, pascalerr.NewDecompositionError("cycle detected in partition graph")
	}

	// A value is last needed at the stage that actually evaluates its
	// last consumer, i.e. the consumer's own create stage -- not
	// however long the consumer itself survives. c is already fully
	// known at this point, so this needs no particular visit order.
	for v := 0; v < numVertices; v++ {
		discard := c[v]
		for _, consumer := range outgoing[v] {
			if c[consumer] > discard {
				discard = c[consumer]
			}
		}
		d[v] = discard
	}
	return c, d, e, nil
}
