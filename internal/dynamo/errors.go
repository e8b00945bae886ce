package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidDimensions indicates a grid width or height that is not positive.
	ErrInvalidDimensions = errors.New("dynamo: grid dimensions must be positive")

	// ErrShapeMismatch indicates two grids that do not share the same (Nx, Ny).
	ErrShapeMismatch = errors.New("dynamo: grid shape mismatch")

	// ErrOutOfBounds indicates a cell coordinate outside the grid.
	ErrOutOfBounds = errors.New("dynamo: cell index out of bounds")

	// ErrAliased indicates an operator asked to read and write the same buffer.
	ErrAliased = errors.New("dynamo: input and output grids share storage")

	// ErrInvalidParams indicates a non-positive or non-finite dx, dy, c or dt.
	ErrInvalidParams = errors.New("dynamo: simulation parameter out of valid bounds")

	// ErrUnstable indicates a CFL violation or a field that blew up.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrInvalidState indicates NaN or Inf in the field.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// TickError wraps an error with the tick it happened on.
type TickError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
