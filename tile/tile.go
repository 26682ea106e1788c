// Package tile implements the worker-side concrete array type: an
// N-dimensional, row-major float64 array whose leading two dimensions
// are the grid axes (possibly haloed) and whose remaining dimensions,
// if any, are per-cell payload (spec §3 "Worker variable store": tile
// arrays have shape (ni+2, nj+2, ...)).
package tile

import (
	"fmt"
	"math"
)

// Array is a flat, row-major, N-dimensional float64 array.
type Array struct {
	Shape []int
	Data  []float64
}

// New allocates a zero-filled Array of the given shape.
func New(shape []int) *Array {
	size := product(shape)
	return &Array{Shape: append([]int(nil), shape...), Data: make([]float64, size)}
}

// Full allocates an Array of the given shape filled with v.
func Full(shape []int, v float64) *Array {
	a := New(shape)
	for i := range a.Data {
		a.Data[i] = v
	}
	return a
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Leading returns the array's first two dimensions (the grid axes),
// or 0 if the array has fewer than that many dimensions.
func (a *Array) Leading() (ni, nj int) {
	if len(a.Shape) > 0 {
		ni = a.Shape[0]
	}
	if len(a.Shape) > 1 {
		nj = a.Shape[1]
	}
	return
}

// Trailing returns the per-cell payload shape beyond the two grid
// axes (may be empty).
func (a *Array) Trailing() []int {
	if len(a.Shape) <= 2 {
		return nil
	}
	return a.Shape[2:]
}

func (a *Array) trailingSize() int { return product(a.Trailing()) }

// cellOffset returns the flat offset of cell (i, j)'s payload.
func (a *Array) cellOffset(i, j int) int {
	_, nj := a.Leading()
	return (i*nj + j) * a.trailingSize()
}

// Row returns a copy of row i across every column and the full
// trailing payload, flattened.
func (a *Array) Row(i int) []float64 {
	_, nj := a.Leading()
	width := nj * a.trailingSize()
	start := a.cellOffset(i, 0)
	out := make([]float64, width)
	copy(out, a.Data[start:start+width])
	return out
}

// SetRow overwrites row i with vals (same layout as Row's return).
func (a *Array) SetRow(i int, vals []float64) {
	_, nj := a.Leading()
	width := nj * a.trailingSize()
	start := a.cellOffset(i, 0)
	copy(a.Data[start:start+width], vals)
}

// Col returns a copy of column j across every row and the full
// trailing payload, flattened in row order.
func (a *Array) Col(j int) []float64 {
	ni, _ := a.Leading()
	ts := a.trailingSize()
	out := make([]float64, 0, ni*ts)
	for i := 0; i < ni; i++ {
		off := a.cellOffset(i, j)
		out = append(out, a.Data[off:off+ts]...)
	}
	return out
}

// SetCol overwrites column j with vals (same layout as Col's return).
func (a *Array) SetCol(j int, vals []float64) {
	ni, _ := a.Leading()
	ts := a.trailingSize()
	for i := 0; i < ni; i++ {
		off := a.cellOffset(i, j)
		copy(a.Data[off:off+ts], vals[i*ts:(i+1)*ts])
	}
}

// SetRowSegment overwrites row i starting at column jStart, for
// len(vals)/trailingSize() cells, leaving the rest of the row (the
// corners of a haloed array) untouched. Used to drop a neighbor's
// border strip into the interior span of a padded row without
// disturbing the corner cells Pad already filled.
func (a *Array) SetRowSegment(i, jStart int, vals []float64) {
	start := a.cellOffset(i, jStart)
	copy(a.Data[start:start+len(vals)], vals)
}

// SetColSegment overwrites column j starting at row iStart, for
// len(vals)/trailingSize() cells, leaving the rest of the column
// untouched.
func (a *Array) SetColSegment(j, iStart int, vals []float64) {
	ts := a.trailingSize()
	n := len(vals) / ts
	for k := 0; k < n; k++ {
		off := a.cellOffset(iStart+k, j)
		copy(a.Data[off:off+ts], vals[k*ts:(k+1)*ts])
	}
}

// Pad allocates a haloed array one larger on every side of the grid
// axes than interior, fills it with 1 (matching the original source's
// np.ones scratch buffer), and copies interior into the center.
func Pad(interior *Array) *Array {
	ni, nj := interior.Leading()
	shape := append([]int{ni + 2, nj + 2}, interior.Trailing()...)
	padded := Full(shape, 1)
	for i := 0; i < ni; i++ {
		ts := interior.trailingSize()
		srcStart := interior.cellOffset(i, 0)
		dstStart := padded.cellOffset(i+1, 1)
		copy(padded.Data[dstStart:dstStart+nj*ts], interior.Data[srcStart:srcStart+nj*ts])
	}
	return padded
}

// Max returns the maximum element of a, or NaN if a is empty.
func (a *Array) Max() float64 { return reduce(a, func(x, y float64) bool { return x > y }) }

// Min returns the minimum element of a, or NaN if a is empty.
func (a *Array) Min() float64 { return reduce(a, func(x, y float64) bool { return x < y }) }

func reduce(a *Array, better func(x, y float64) bool) float64 {
	if len(a.Data) == 0 {
		return math.NaN()
	}
	best := a.Data[0]
	for _, v := range a.Data[1:] {
		if better(v, best) {
			best = v
		}
	}
	return best
}

// Sum returns the sum of all elements of a.
func (a *Array) Sum() float64 {
	var total float64
	for _, v := range a.Data {
		total += v
	}
	return total
}

// MapScalar returns a new Array of the same shape with f applied
// elementwise.
func (a *Array) MapScalar(f func(float64) float64) *Array {
	out := &Array{Shape: append([]int(nil), a.Shape...), Data: make([]float64, len(a.Data))}
	for i, v := range a.Data {
		out.Data[i] = f(v)
	}
	return out
}

// Zip2 combines two same-shaped Arrays elementwise with f.
func Zip2(a, b *Array, f func(x, y float64) float64) (*Array, error) {
	if len(a.Data) != len(b.Data) {
		return nil, fmt.Errorf("tile: shape mismatch %v vs %v", a.Shape, b.Shape)
	}
	out := &Array{Shape: append([]int(nil), a.Shape...), Data: make([]float64, len(a.Data))}
	for i := range a.Data {
		out.Data[i] = f(a.Data[i], b.Data[i])
	}
	return out, nil
}

// Copy returns a deep copy of a.
func (a *Array) Copy() *Array {
	out := &Array{Shape: append([]int(nil), a.Shape...), Data: append([]float64(nil), a.Data...)}
	return out
}
