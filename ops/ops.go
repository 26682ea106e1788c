// Package ops collects the builtin and example fabric.Func values
// exercised by this module's tests and cmd/pascal's demo run,
// grounded directly on original_source/mpi_worker_commander.py's
// doctest and unittest bodies (operator.add, np.sin, np.max, np.min,
// np.sum, np.copy, and the add_one/double_triple/make_worker_variable
// custom functions).
//
// Each is exported as a fabric.Func value rather than a bare function
// so that the worker's "fn is already a Func" branch (the case Func
// of Worker.resolveFunc) matches it directly, without relying on an
// unnamed func type happening to convert implicitly.
package ops

import (
	"fmt"
	"math"

	"github.com/hubailmm/pascal/fabric"
	"github.com/hubailmm/pascal/tile"
)

func arg(args []any, i int) (*tile.Array, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("ops: expected at least %d argument(s), got %d", i+1, len(args))
	}
	a, ok := args[i].(*tile.Array)
	if !ok {
		return nil, fmt.Errorf("ops: argument %d is a %T, not a *tile.Array", i, args[i])
	}
	return a, nil
}

// Add is the elementwise sum of its two tile.Array arguments
// (original source doctest: operator.add(i, j)).
var Add fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := arg(args, 1)
	if err != nil {
		return nil, err
	}
	return tile.Zip2(a, b, func(x, y float64) float64 { return x + y })
}

// Sin maps math.Sin over its sole argument (original source: np.sin).
var Sin fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	return a.MapScalar(math.Sin), nil
}

// Copy returns a deep copy of its sole argument (original source:
// np.copy).
var Copy fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	return a.Copy(), nil
}

// Sum reduces its sole argument to a scalar sum (original source:
// np.sum).
var Sum fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	return a.Sum(), nil
}

// Max reduces its sole argument to a scalar maximum (original source:
// np.max).
var Max fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	return a.Max(), nil
}

// Min reduces its sole argument to a scalar minimum (original source:
// np.min).
var Min fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	return a.Min(), nil
}

// Shape returns its sole argument's shape (original source: np.shape).
var Shape fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), a.Shape...), nil
}

// AddOne adds 1 to every cell of its sole argument, registered by
// name via Commander.SetCustomFunc (original source test lambda:
// lambda x: x + 1).
var AddOne fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	return a.MapScalar(func(x float64) float64 { return x + 1 }), nil
}

// DoubleTriple returns (2*x, 3*x) as a two-element tuple result
// (original source test lambda: lambda x: (2*x, 3*x)).
var DoubleTriple fabric.Func = func(args []any, _ map[string]any) (any, error) {
	a, err := arg(args, 0)
	if err != nil {
		return nil, err
	}
	double := a.MapScalar(func(x float64) float64 { return 2 * x })
	triple := a.MapScalar(func(x float64) float64 { return 3 * x })
	return []any{double, triple}, nil
}
