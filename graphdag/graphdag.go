// Package graphdag walks the symbolic DAG from its sinks, discovering
// internal Values and tributaries, and topologically sorts a set of
// internal Values against a set of already-known ones (spec §4.B).
package graphdag

import (
	"github.com/hubailmm/pascal/pascalerr"
	"github.com/hubailmm/pascal/value"
)

// Discover walks producers starting from each sink. A Value is:
//   - skipped if it is in sources (the boundary of the walk),
//   - recorded as a tributary if it has no owner and is not a source,
//   - recorded as internal otherwise, after which its inputs are
//     traversed in turn.
//
// Each Value appears at most once in each returned slice; insertion
// order is discovery order.
func Discover(sources, sinks []*value.Value) (internal, tributaries []*value.Value) {
	isSource := make(map[*value.Value]bool, len(sources))
	for _, s := range sources {
		isSource[s] = true
	}
	seenInternal := make(map[*value.Value]bool)
	seenTributary := make(map[*value.Value]bool)

	var visit func(v *value.Value)
	visit = func(v *value.Value) {
		if isSource[v] {
			return
		}
		if v.IsSource() {
			if !seenTributary[v] {
				seenTributary[v] = true
				tributaries = append(tributaries, v)
			}
			return
		}
		if seenInternal[v] {
			return
		}
		seenInternal[v] = true
		internal = append(internal, v)
		for _, inp := range v.Owner().Inputs() {
			if iv, ok := value.AsValue(inp); ok {
				visit(iv)
			}
		}
	}
	for _, sink := range sinks {
		visit(sink)
	}
	return internal, tributaries
}

// TopoSort repeatedly extracts any Value from unsorted whose every
// input is computable — already present in known, or itself a source
// or tributary (owner == nil). It returns the extracted Values
// appended in extraction order. If a full pass removes nothing while
// unsorted is still non-empty, the DAG is malformed (a cycle, or an
// input that is neither known nor reachable) and a *pascalerr.GraphError
// is returned.
//
// known is consulted but not mutated; the returned order already
// reflects forward-looking readiness so callers typically merge it
// into their own "known" set.
func TopoSort(known map[*value.Value]bool, unsorted []*value.Value) ([]*value.Value, error) {
	sortedSet := make(map[*value.Value]bool, len(known))
	for v := range known {
		sortedSet[v] = true
	}

	isComputable := func(x any) bool {
		iv, ok := value.AsValue(x)
		if !ok {
			return true // raw constant, never awaits substitution
		}
		return sortedSet[iv] || iv.IsSource()
	}

	remaining := append([]*value.Value(nil), unsorted...)
	var sorted []*value.Value
	for len(remaining) > 0 {
		removedAny := false
		next := remaining[:0:0]
		for _, v := range remaining {
			ready := true
			for _, inp := range v.Owner().Inputs() {
				if !isComputable(inp) {
					ready = false
					break
				}
			}
			if ready {
				sorted = append(sorted, v)
				sortedSet[v] = true
				removedAny = true
			} else {
				next = append(next, v)
			}
		}
		remaining = next
		if !removedAny {
			return nil, pascalerr.NewGraphError(remaining[0].String(),
				"no forward progress in topological sort: cycle or unreachable input")
		}
	}
	return sorted, nil
}
