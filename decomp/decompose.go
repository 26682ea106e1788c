package decomp

import (
	"github.com/hubailmm/pascal/graphdag"
	"github.com/hubailmm/pascal/pascalerr"
	"github.com/hubailmm/pascal/partition"
	"github.com/hubailmm/pascal/value"
)

// Decompose discovers the DAG reachable from sinks, builds the
// partition graph (spec §4.C steps 1-3), invokes p to obtain a
// create/discard stage assignment (step 4), and materializes the
// ordered list of AtomicStages (step 5): stage 0 consumes sources,
// each subsequent stage consumes the previous stage's outputs, and the
// final stage produces sinks.
func Decompose(sources, sinks []*value.Value, p partition.Partitioner) ([]*AtomicStage, error) {
	internal, _ := graphdag.Discover(sources, sinks)

	// A = internal values ∪ sources, in that order, each assigned an
	// integer id; id len(A) is the synthetic sink.
	all := make([]*value.Value, 0, len(internal)+len(sources))
	all = append(all, internal...)
	all = append(all, sources...)
	id := make(map[*value.Value]int, len(all))
	for i, v := range all {
		id[v] = i
	}

	weights := make([]int, len(all)+1)
	for i, v := range all {
		weights[i] = v.Size()
	}
	weights[len(all)] = 1 // synthetic sink

	var edges []partition.Edge
	for _, v := range internal {
		owner := v.Owner()
		vid := id[v]
		for _, inp := range owner.Inputs() {
			iv, ok := value.AsValue(inp)
			if !ok {
				continue
			}
			uid, known := id[iv]
			if !known {
				continue
			}
			edges = append(edges, partition.Edge{U: uid, V: vid, Stencil: owner.AccessNeighbor()})
		}
	}

	c, d, _, err := p.Run(weights, edges)
	if err != nil {
		return nil, err
	}
	if len(c) != len(all) || len(d) != len(all) {
		return nil, pascalerr.NewDecompositionError(
			"partitioner returned %d/%d rows, expected %d", len(c), len(d), len(all))
	}

	numStages := 0
	for _, dv := range d {
		if dv > numStages {
			numStages = dv
		}
	}

	// numStages == 0 means no stencil boundary separates sources from
	// sinks: the loop below contributes no intermediate stages and a
	// single final stage covers the whole DAG directly.
	var stages []*AtomicStage
	stageSources := append([]*value.Value(nil), sources...)
	for k := 1; k < numStages; k++ {
		var nextSources []*value.Value
		for _, v := range all {
			vid := id[v]
			if c[vid] <= k && d[vid] > k {
				nextSources = append(nextSources, v)
			}
		}
		stage, err := NewAtomicStage(stageSources, nextSources)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
		stageSources = nextSources
	}

	finalStage, err := NewAtomicStage(stageSources, sinks)
	if err != nil {
		return nil, err
	}
	stages = append(stages, finalStage)
	return stages, nil
}
