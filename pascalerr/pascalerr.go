// Package pascalerr defines the error taxonomy for the stencil
// execution engine (spec §7): GraphError, DecompositionError,
// ShapeError, ProtocolError and TransportError. Each carries the
// offending entity (a Value description, a worker rank, ...) and a
// short cause, mirroring the diagnostic shape gosl/chk.Err builds for
// gofem, but returned as ordinary Go errors instead of panicking.
package pascalerr

import "fmt"

// GraphError reports a malformed DAG: a cycle, an unreachable input,
// or a shape mismatch the value model cannot tolerate.
type GraphError struct {
	Value string
	Cause string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph error at %s: %s", e.Value, e.Cause)
}

// NewGraphError builds a GraphError with a formatted cause.
func NewGraphError(value, format string, args ...any) *GraphError {
	return &GraphError{Value: value, Cause: fmt.Sprintf(format, args...)}
}

// DecompositionError reports partitioner failure, malformed
// partitioner output, or an empty stage set for non-empty sinks.
type DecompositionError struct {
	Cause string
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("decomposition error: %s", e.Cause)
}

// NewDecompositionError builds a DecompositionError with a formatted
// cause.
func NewDecompositionError(format string, args ...any) *DecompositionError {
	return &DecompositionError{Cause: fmt.Sprintf(format, args...)}
}

// ShapeError reports a worker-produced array whose leading dims are
// neither the tile shape nor the haloed tile shape.
type ShapeError struct {
	Rank  int
	Cause string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape error at worker %d: %s", e.Rank, e.Cause)
}

// NewShapeError builds a ShapeError with a formatted cause.
func NewShapeError(rank int, format string, args ...any) *ShapeError {
	return &ShapeError{Rank: rank, Cause: fmt.Sprintf(format, args...)}
}

// ProtocolError reports an unknown method name or mis-shaped task
// tuple received by a worker.
type ProtocolError struct {
	Rank  int
	Cause string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error at worker %d: %s", e.Rank, e.Cause)
}

// NewProtocolError builds a ProtocolError with a formatted cause.
func NewProtocolError(rank int, format string, args ...any) *ProtocolError {
	return &ProtocolError{Rank: rank, Cause: fmt.Sprintf(format, args...)}
}

// TransportError reports a failed collective or point-to-point
// communication.
type TransportError struct {
	Rank  int
	Cause string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error at rank %d: %s", e.Rank, e.Cause)
}

// NewTransportError builds a TransportError with a formatted cause.
func NewTransportError(rank int, format string, args ...any) *TransportError {
	return &TransportError{Rank: rank, Cause: fmt.Sprintf(format, args...)}
}
