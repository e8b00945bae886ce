package integrators

import (
	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/stencil"
)

const cellsPerChunk = 8192

// UpdateVelocity applies vel += acc*h to every cell.
func UpdateVelocity(vel, acc *field.Grid, h float64) error {
	if err := field.CheckShape(vel, acc); err != nil {
		return err
	}
	axpy(vel.Data(), acc.Data(), h)
	return nil
}

// UpdateValue applies val += vel*dt to every cell.
func UpdateValue(val, vel *field.Grid, dt float64) error {
	if err := field.CheckShape(val, vel); err != nil {
		return err
	}
	axpy(val.Data(), vel.Data(), dt)
	return nil
}

// axpy computes y += a*x in independent chunks.
func axpy(y, x []float64, a float64) {
	dynamo.ParallelFor(len(y), cellsPerChunk, func(start, end int) {
		ys, xs := y[start:end], x[start:end]
		for i := range ys {
			ys[i] += xs[i] * a
		}
	})
}

// Verlet advances a field with the kick-drift-kick form of velocity Verlet:
//
//	acc = L(value)
//	vel += acc * dt/2
//	val += vel * dt
//	acc = L(value)
//	vel += acc * dt/2
type Verlet struct {
	op stencil.Operator
}

func NewVerlet(op stencil.Operator) *Verlet {
	return &Verlet{op: op}
}

// Step runs one complete tick. Every pass finishes before the next starts.
func (v *Verlet) Step(f *field.Field, dt float64) error {
	if err := f.CheckShape(); err != nil {
		return err
	}
	halfDt := 0.5 * dt

	if err := v.op.Apply(f.Value, f.Acceleration); err != nil {
		return err
	}
	if err := UpdateVelocity(f.Velocity, f.Acceleration, halfDt); err != nil {
		return err
	}
	if err := UpdateValue(f.Value, f.Velocity, dt); err != nil {
		return err
	}
	if err := v.op.Apply(f.Value, f.Acceleration); err != nil {
		return err
	}
	return UpdateVelocity(f.Velocity, f.Acceleration, halfDt)
}
