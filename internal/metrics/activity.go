package metrics

import (
	"math"

	"github.com/san-kum/wave2d/internal/field"
	"gonum.org/v1/gonum/floats"
)

// RMSVelocity averages the root-mean-square cell velocity over ticks.
type RMSVelocity struct {
	name    string
	sum     float64
	samples int
}

func NewRMSVelocity() *RMSVelocity {
	return &RMSVelocity{
		name: "rms_velocity",
	}
}

func (r *RMSVelocity) Name() string {
	return r.name
}

func (r *RMSVelocity) Observe(f *field.Field, t float64) {
	v := f.Velocity.Data()
	if len(v) == 0 {
		return
	}
	r.sum += floats.Norm(v, 2) / math.Sqrt(float64(len(v)))
	r.samples++
}

func (r *RMSVelocity) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *RMSVelocity) Reset() {
	r.sum = 0
	r.samples = 0
}
