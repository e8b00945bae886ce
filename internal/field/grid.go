package field

import (
	"fmt"
	"math"

	"github.com/san-kum/wave2d/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Grid stores a dense Nx by Ny array of float64 in row-major order:
// cell (i, j) lives at j*Nx + i.
type Grid struct {
	Nx, Ny int
	data   []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(nx, ny int) (*Grid, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", dynamo.ErrInvalidDimensions, nx, ny)
	}
	return &Grid{Nx: nx, Ny: ny, data: make([]float64, nx*ny)}, nil
}

// Index returns the linear slice index for (i, j). It does not bounds-check.
func (g *Grid) Index(i, j int) int { return j*g.Nx + i }

// Len is Nx*Ny.
func (g *Grid) Len() int { return len(g.data) }

// Data exposes the backing slice so passes can stream over it directly.
func (g *Grid) Data() []float64 { return g.data }

func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.Nx && j >= 0 && j < g.Ny
}

// At returns the value at (i, j) and panics if the cell is outside the grid.
func (g *Grid) At(i, j int) float64 {
	g.mustContain(i, j)
	return g.data[j*g.Nx+i]
}

// Set writes v at (i, j) and panics if the cell is outside the grid.
func (g *Grid) Set(i, j int, v float64) {
	g.mustContain(i, j)
	g.data[j*g.Nx+i] = v
}

// Get is the non-panicking form of At.
func (g *Grid) Get(i, j int) (float64, error) {
	if !g.InBounds(i, j) {
		return 0, fmt.Errorf("%w: (%d,%d) not in %dx%d", dynamo.ErrOutOfBounds, i, j, g.Nx, g.Ny)
	}
	return g.data[j*g.Nx+i], nil
}

func (g *Grid) mustContain(i, j int) {
	if !g.InBounds(i, j) {
		panic(fmt.Sprintf("field: cell (%d,%d) out of bounds for %dx%d grid", i, j, g.Nx, g.Ny))
	}
}

// Wrap maps any coordinate pair onto the torus.
func (g *Grid) Wrap(i, j int) (int, int) {
	i = (i%g.Nx + g.Nx) % g.Nx
	j = (j%g.Ny + g.Ny) % g.Ny
	return i, j
}

func (g *Grid) SameShape(other *Grid) bool {
	return other != nil && g.Nx == other.Nx && g.Ny == other.Ny && len(g.data) == len(other.data)
}

// SharesStorage reports whether both grids are backed by the same array.
func (g *Grid) SharesStorage(other *Grid) bool {
	if other == nil || len(g.data) == 0 || len(other.data) == 0 {
		return false
	}
	return &g.data[0] == &other.data[0]
}

// CheckShape returns ErrShapeMismatch unless every grid matches the first.
func CheckShape(grids ...*Grid) error {
	if len(grids) == 0 {
		return nil
	}
	ref := grids[0]
	if ref == nil {
		return fmt.Errorf("%w: nil grid", dynamo.ErrShapeMismatch)
	}
	for _, g := range grids[1:] {
		if g == nil {
			return fmt.Errorf("%w: nil grid", dynamo.ErrShapeMismatch)
		}
		if !ref.SameShape(g) {
			return fmt.Errorf("%w: %dx%d vs %dx%d", dynamo.ErrShapeMismatch, ref.Nx, ref.Ny, g.Nx, g.Ny)
		}
	}
	return nil
}

// Snapshot returns a row-major copy of the grid.
func (g *Grid) Snapshot() []float64 {
	c := make([]float64, len(g.data))
	copy(c, g.data)
	return c
}

func (g *Grid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}

func (g *Grid) CopyFrom(other *Grid) error {
	if err := CheckShape(g, other); err != nil {
		return err
	}
	copy(g.data, other.data)
	return nil
}

// MaxAbs is the infinity norm of the grid.
func (g *Grid) MaxAbs() float64 {
	return floats.Norm(g.data, math.Inf(1))
}

// IsValid reports false if any cell holds NaN or Inf.
func (g *Grid) IsValid() bool {
	for _, v := range g.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
