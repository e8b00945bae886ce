// Package dynamo provides the shared primitives of the wave simulation core.
//
// The package sits below every other simulation package and holds:
//
//   - the sentinel errors returned by field, stencil, integrator and
//     simulator code ([ErrShapeMismatch], [ErrInvalidParams], ...)
//   - [TickError], which attaches the failing tick and simulated time
//   - [ParallelFor], the row-chunked worker split used by the per-cell passes
//
// # Thread Safety
//
// [ParallelFor] blocks until every chunk has finished, so a pass started
// with it is complete when the call returns. Callers never observe a
// partially written grid.
package dynamo
