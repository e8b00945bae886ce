// Package field holds the wave field state: value, velocity and the
// acceleration scratch buffer, all on the same periodic grid.
package field

import (
	"github.com/san-kum/wave2d/internal/dynamo"
)

// SeedFunc returns the initial value of cell (i, j).
type SeedFunc func(i, j int) float64

// Field owns the three same-shaped grids of a run. Acceleration is a
// scratch buffer rewritten by the stencil twice per tick.
type Field struct {
	Value        *Grid
	Velocity     *Grid
	Acceleration *Grid
}

// New allocates a field and seeds Value. A nil seed leaves Value at zero.
func New(nx, ny int, seed SeedFunc) (*Field, error) {
	value, err := NewGrid(nx, ny)
	if err != nil {
		return nil, err
	}
	velocity, _ := NewGrid(nx, ny)
	acceleration, _ := NewGrid(nx, ny)

	f := &Field{Value: value, Velocity: velocity, Acceleration: acceleration}
	f.Seed(seed)
	return f, nil
}

func (f *Field) Nx() int { return f.Value.Nx }
func (f *Field) Ny() int { return f.Value.Ny }

// Seed overwrites Value from seed.
func (f *Field) Seed(seed SeedFunc) {
	if seed == nil {
		f.Value.Fill(0)
		return
	}
	nx, ny := f.Nx(), f.Ny()
	data := f.Value.Data()
	for j := 0; j < ny; j++ {
		row := j * nx
		for i := 0; i < nx; i++ {
			data[row+i] = seed(i, j)
		}
	}
}

// SetVelocity fills Velocity with a constant.
func (f *Field) SetVelocity(v float64) { f.Velocity.Fill(v) }

// Reset reseeds the field in place without reallocating.
func (f *Field) Reset(seed SeedFunc, velocity float64) {
	f.Seed(seed)
	f.Velocity.Fill(velocity)
	f.Acceleration.Fill(0)
}

// CheckShape verifies the three grids still share one shape and that the
// acceleration scratch is a distinct buffer from Value.
func (f *Field) CheckShape() error {
	if err := CheckShape(f.Value, f.Velocity, f.Acceleration); err != nil {
		return err
	}
	if f.Value.SharesStorage(f.Acceleration) {
		return dynamo.ErrAliased
	}
	return nil
}

// Clone deep-copies the field.
func (f *Field) Clone() *Field {
	c, _ := New(f.Nx(), f.Ny(), nil)
	copy(c.Value.Data(), f.Value.Data())
	copy(c.Velocity.Data(), f.Velocity.Data())
	copy(c.Acceleration.Data(), f.Acceleration.Data())
	return c
}
