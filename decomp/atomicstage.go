// Package decomp builds the partition graph, invokes the external
// partitioner, and materializes the ordered list of AtomicStages that
// together implement a sink DAG one communication-localized step at a
// time (spec §4.C, §4.D).
package decomp

import (
	"github.com/hubailmm/pascal/graphdag"
	"github.com/hubailmm/pascal/pascalerr"
	"github.com/hubailmm/pascal/value"
)

// TributaryResolver supplies the concrete counterpart of a tributary
// Value at invocation time, either as a function or as an indexable
// mapping.
type TributaryResolver interface {
	Resolve(v *value.Value) (any, error)
}

// TributaryFunc adapts a plain function to TributaryResolver.
type TributaryFunc func(v *value.Value) (any, error)

// Resolve implements TributaryResolver.
func (f TributaryFunc) Resolve(v *value.Value) (any, error) { return f(v) }

// TributaryMap adapts a map to TributaryResolver.
type TributaryMap map[*value.Value]any

// Resolve implements TributaryResolver.
func (m TributaryMap) Resolve(v *value.Value) (any, error) {
	val, ok := m[v]
	if !ok {
		return nil, pascalerr.NewGraphError(v.String(), "tributary value has no resolved counterpart")
	}
	return val, nil
}

// AtomicStage is an immutable, reinvocable compiled sub-DAG: a set of
// formal sources, tributaries fed in from the side, an internal
// Values topologically sorted, and an ordered list of sinks.
type AtomicStage struct {
	sources     []*value.Value
	tributaries []*value.Value
	internal    []*value.Value
	sinks       []*value.Value
}

// NewAtomicStage discovers the closure of sinks given sources as the
// formal parameter boundary, topologically sorts the internal Values,
// and returns the immutable stage. An error is returned if the
// closure contains a cycle or an unreachable input (spec §4.D, §9).
func NewAtomicStage(sources, sinks []*value.Value) (*AtomicStage, error) {
	internalUnsorted, tributaries := graphdag.Discover(sources, sinks)

	known := make(map[*value.Value]bool, len(sources)+len(tributaries))
	for _, s := range sources {
		known[s] = true
	}
	for _, tr := range tributaries {
		known[tr] = true
	}
	sorted, err := graphdag.TopoSort(known, internalUnsorted)
	if err != nil {
		return nil, err
	}
	return &AtomicStage{
		sources:     append([]*value.Value(nil), sources...),
		tributaries: tributaries,
		internal:    sorted,
		sinks:       append([]*value.Value(nil), sinks...),
	}, nil
}

// Sources returns the stage's formal source Values, in declared order.
func (s *AtomicStage) Sources() []*value.Value { return s.sources }

// Tributaries returns the stage's side-fed Values, in discovery order.
func (s *AtomicStage) Tributaries() []*value.Value { return s.tributaries }

// Sinks returns the stage's output Values, in declared order.
func (s *AtomicStage) Sinks() []*value.Value { return s.sinks }

// Invoke evaluates the stage given concrete source values (positional,
// matching Sources()) and a resolver for tributaries, returning the
// concrete sink values in declared order. The evaluation is reentrant
// and stateless across calls: the symbol table is local to this
// invocation.
func (s *AtomicStage) Invoke(concreteSources []any, tributaries TributaryResolver) ([]any, error) {
	if len(concreteSources) != len(s.sources) {
		return nil, pascalerr.NewGraphError("stage",
			"expected %d source values, got %d", len(s.sources), len(concreteSources))
	}

	table := make(map[*value.Value]any, len(s.sources)+len(s.tributaries)+len(s.internal))
	for i, src := range s.sources {
		table[src] = concreteSources[i]
	}
	for _, tr := range s.tributaries {
		resolved, err := tributaries.Resolve(tr)
		if err != nil {
			return nil, err
		}
		table[tr] = resolved
	}

	// substitute resolves one Operation input: a *Value is replaced by
	// its symbol-table entry, anything else (a raw constant) passes
	// through unchanged (spec §4.D, §9 "Runtime reflection").
	substitute := func(x any) any {
		if v, ok := value.AsValue(x); ok {
			return table[v]
		}
		return x
	}

	for _, v := range s.internal {
		owner := v.Owner()
		inputs := make([]any, len(owner.Inputs()))
		for i, inp := range owner.Inputs() {
			inputs[i] = substitute(inp)
		}
		result, err := owner.Perform(inputs)
		if err != nil {
			return nil, err
		}
		table[v] = result
	}

	sinkValues := make([]any, len(s.sinks))
	for i, sink := range s.sinks {
		sinkValues[i] = table[sink]
	}
	return sinkValues, nil
}
