package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/stencil"
)

// Params are the physical constants of a run. They are fixed before the
// first tick and never change afterwards.
type Params struct {
	Dx float64
	Dy float64
	C  float64
	Dt float64
}

// Validate rejects non-positive or non-finite parameters.
func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"dx", p.Dx}, {"dy", p.Dy}, {"c", p.C}, {"dt", p.Dt},
	}
	for _, c := range checks {
		if !(c.v > 0) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrInvalidParams, c.name, c.v)
		}
	}
	return nil
}

// CFLLimit is the largest stable dt for dx, dy and c.
func (p Params) CFLLimit() float64 { return stencil.CFLLimit(p.C, p.Dx, p.Dy) }

// CFLNumber is Dt / CFLLimit; above 1 the field grows without bound.
func (p Params) CFLNumber() float64 { return stencil.CFLNumber(p.C, p.Dt, p.Dx, p.Dy) }

// CheckStability returns ErrUnstable when Dt exceeds the CFL limit.
func (p Params) CheckStability() error {
	if n := p.CFLNumber(); n > 1 {
		return fmt.Errorf("%w: dt=%g exceeds CFL limit %g (ratio %.3f)", dynamo.ErrUnstable, p.Dt, p.CFLLimit(), n)
	}
	return nil
}

type Metric interface {
	Name() string
	Observe(f *field.Field, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(tick int, t float64, f *field.Field)
}

type Config struct {
	Nx, Ny          int
	Params          Params
	Seed            field.SeedFunc
	InitialVelocity float64
	// Strict turns a CFL violation into a construction error.
	Strict bool
	// BlowupThreshold > 0 stops a run once any |value| exceeds it.
	BlowupThreshold float64
	ValidateState   bool
	SampleEvery     int
	ProbeX, ProbeY  int
}

// Sample is one row of a run's recorded history.
type Sample struct {
	Tick   int     `json:"tick"`
	Time   float64 `json:"time"`
	Energy float64 `json:"energy"`
	MaxAbs float64 `json:"max_abs"`
	Probe  float64 `json:"probe"`
}

type Result struct {
	Nx, Ny      int
	Samples     []Sample
	Metrics     map[string]float64
	EnergyDrift float64
	TicksTaken  int
	Final       []float64
}

// Probe returns the probe series and the time between samples.
func (r *Result) Probe() ([]float64, float64) {
	series := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		series[i] = s.Probe
	}
	interval := 0.0
	if len(r.Samples) > 1 {
		interval = r.Samples[1].Time - r.Samples[0].Time
	}
	return series, interval
}
