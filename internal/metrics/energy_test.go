package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/integrators"
	"github.com/san-kum/wave2d/internal/stencil"
)

func TestFieldEnergyKinetic(t *testing.T) {
	f, _ := field.New(4, 4, field.Uniform(2))
	f.SetVelocity(1)

	// Uniform value has no gradient: E = dx*dy * 16 cells * 1/2.
	got := FieldEnergy(f, 3, 0.5, 0.5)
	if math.Abs(got-16*0.5*0.25) > 1e-12 {
		t.Errorf("expected 2, got %f", got)
	}
}

func TestFieldEnergyMatchesLaplacianForm(t *testing.T) {
	nx, ny := 12, 10
	f, _ := field.New(nx, ny, field.Gaussian(nx, ny, 3, 4, 1.5, 1))
	c, dx, dy := 0.8, 0.5, 0.25

	op, _ := stencil.NewLaplacian(c, dx, dy)
	if err := op.Apply(f.Value, f.Acceleration); err != nil {
		t.Fatal(err)
	}

	// -u.(c^2 L u)/2 summed over cells equals the gradient form.
	dot := 0.0
	for i, u := range f.Value.Data() {
		dot += u * f.Acceleration.Data()[i]
	}
	want := -0.5 * dot * dx * dy

	if got := FieldEnergy(f, c, dx, dy); math.Abs(got-want) > 1e-9*math.Abs(want) {
		t.Errorf("gradient form %g != laplacian form %g", got, want)
	}
}

func TestEnergyConservation(t *testing.T) {
	nx, ny := 32, 32
	c, dx, dy, dt := 1.0, 1.0, 1.0, 0.1
	f, _ := field.New(nx, ny, field.Mode(nx, ny, 1, 1, 1))
	op, _ := stencil.NewLaplacian(c, dx, dy)
	integ := integrators.NewVerlet(op)

	drift := NewEnergyDrift(c, dx, dy)
	drift.Observe(f, 0)
	for i := 0; i < 1000; i++ {
		if err := integ.Step(f, dt); err != nil {
			t.Fatal(err)
		}
		drift.Observe(f, float64(i+1)*dt)
	}

	if drift.Value() > 1e-2 {
		t.Errorf("energy drift too large: %g", drift.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	f, _ := field.New(4, 4, field.Impulse(0, 0, 1))
	m := NewEnergy(1, 1, 1)

	m.Observe(f, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestStability(t *testing.T) {
	f, _ := field.New(2, 2, field.Uniform(1))
	s := NewStability(10)

	s.Observe(f, 0)
	f.Value.Set(1, 1, 11)
	s.Observe(f, 1)
	f.Value.Set(1, 1, math.NaN())
	s.Observe(f, 2)
	f.Value.Set(1, 1, 0)
	s.Observe(f, 3)

	if s.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", s.Value())
	}
}

func TestMaxAmplitudeAndRMSVelocity(t *testing.T) {
	f, _ := field.New(2, 2, nil)
	copy(f.Value.Data(), []float64{0.1, -3, 2, 0})
	copy(f.Velocity.Data(), []float64{1, -1, 1, -1})

	m := NewMaxAmplitude()
	m.Observe(f, 0)
	if m.Value() != 3 {
		t.Errorf("expected 3, got %f", m.Value())
	}

	r := NewRMSVelocity()
	r.Observe(f, 0)
	if math.Abs(r.Value()-1) > 1e-12 {
		t.Errorf("expected rms 1, got %f", r.Value())
	}
}
