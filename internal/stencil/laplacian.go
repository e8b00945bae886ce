// Package stencil computes the right-hand side of the 2D wave equation with
// a five-point finite-difference Laplacian on a periodic grid.
package stencil

import (
	"fmt"
	"math"

	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/field"
)

// cellsPerChunk keeps small grids on the calling goroutine.
const cellsPerChunk = 4096

// Operator fills acc from value. Implementations must overwrite every cell.
type Operator interface {
	Apply(value, acc *field.Grid) error
}

// Laplacian is c^2 times the five-point Laplacian with wrap-around indexing:
//
//	acc[i,j] = c^2 * ((v[i-1,j] + v[i+1,j] - 2v[i,j]) / dx^2
//	                + (v[i,j-1] + v[i,j+1] - 2v[i,j]) / dy^2)
type Laplacian struct {
	C, Dx, Dy float64
}

func NewLaplacian(c, dx, dy float64) (*Laplacian, error) {
	for name, v := range map[string]float64{"c": c, "dx": dx, "dy": dy} {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s must be positive and finite, got %g", dynamo.ErrInvalidParams, name, v)
		}
	}
	return &Laplacian{C: c, Dx: dx, Dy: dy}, nil
}

// Apply reads all of value and writes all of acc. The two grids must have
// the same shape and must not share storage.
func (l *Laplacian) Apply(value, acc *field.Grid) error {
	if err := field.CheckShape(value, acc); err != nil {
		return err
	}
	if value.SharesStorage(acc) {
		return dynamo.ErrAliased
	}

	nx, ny := value.Nx, value.Ny
	c2 := l.C * l.C
	invDx2 := 1 / (l.Dx * l.Dx)
	invDy2 := 1 / (l.Dy * l.Dy)
	v, a := value.Data(), acc.Data()

	minRows := cellsPerChunk / nx
	dynamo.ParallelFor(ny, minRows, func(start, end int) {
		for j := start; j < end; j++ {
			row := j * nx
			up := ((j + ny - 1) % ny) * nx
			down := ((j + 1) % ny) * nx
			for i := 0; i < nx; i++ {
				left := i - 1
				if left < 0 {
					left = nx - 1
				}
				right := i + 1
				if right == nx {
					right = 0
				}
				center := v[row+i]
				d2x := (v[row+left] + v[row+right] - 2*center) * invDx2
				d2y := (v[up+i] + v[down+i] - 2*center) * invDy2
				a[row+i] = c2 * (d2x + d2y)
			}
		}
	})
	return nil
}

// CFLLimit is the largest stable dt for this stencil paired with the
// half-kick/drift/half-kick integrator.
func CFLLimit(c, dx, dy float64) float64 {
	return math.Min(dx, dy) / (c * math.Sqrt2)
}

// CFLNumber is dt relative to CFLLimit. Values above 1 grow without bound.
func CFLNumber(c, dt, dx, dy float64) float64 {
	return dt / CFLLimit(c, dx, dy)
}
