// Package value implements the symbolic DAG's node type: an immutable
// array-shaped Value produced by at most one Operation.
package value

import "fmt"

// Operation produces exactly one Value from an ordered list of
// inputs. Each element of Inputs is either a *Value (a symbolic
// dependency, substituted from the evaluator's symbol table) or a raw
// constant passed through unchanged (spec §4.A, §9 "Runtime
// reflection": the Value/raw-constant distinction the evaluator must
// make explicit). AccessNeighbor is true iff evaluating the operation
// reads grid cells beyond the tile it writes — i.e. it is a stencil.
// Perform evaluates the operation given concrete tile inputs in the
// same order as Inputs, with every *Value entry already substituted.
type Operation interface {
	Inputs() []any
	AccessNeighbor() bool
	Perform(inputs []any) (any, error)
}

// AsValue reports whether x is a *Value and returns it, distinguishing
// symbolic dependencies from raw constants in an Operation's Inputs.
func AsValue(x any) (*Value, bool) {
	v, ok := x.(*Value)
	return v, ok
}

// Value is an immutable node of the symbolic DAG. Two Values are
// distinct iff they are distinct pointers; structural equality is
// never used, so a Value must always be passed and compared by
// pointer.
type Value struct {
	shape []int
	owner Operation
}

// New returns a derived Value produced by owner.
func New(shape []int, owner Operation) *Value {
	return &Value{shape: append([]int(nil), shape...), owner: owner}
}

// NewSource returns a source Value (owner is nil).
func NewSource(shape []int) *Value {
	return &Value{shape: append([]int(nil), shape...)}
}

// Shape returns the Value's shape. Callers must not mutate the
// returned slice.
func (v *Value) Shape() []int { return v.shape }

// Owner returns the producing Operation, or nil if v is a source.
func (v *Value) Owner() Operation { return v.owner }

// IsSource reports whether v has no owner.
func (v *Value) IsSource() bool { return v.owner == nil }

// Ndim returns len(Shape()).
func (v *Value) Ndim() int { return len(v.shape) }

// Size returns the product of Shape(), or 1 for a scalar.
func (v *Value) Size() int {
	size := 1
	for _, d := range v.shape {
		size *= d
	}
	return size
}

// String implements fmt.Stringer for readable error messages and test
// failures.
func (v *Value) String() string {
	if v.owner != nil {
		return fmt.Sprintf("Value(shape=%v, owner)", v.shape)
	}
	return fmt.Sprintf("Value(shape=%v, source)", v.shape)
}
