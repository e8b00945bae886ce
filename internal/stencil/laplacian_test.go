package stencil

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/field"
)

func mustGrid(t *testing.T, nx, ny int) *field.Grid {
	t.Helper()
	g, err := field.NewGrid(nx, ny)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func TestConcreteImpulse(t *testing.T) {
	op, err := NewLaplacian(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	v := mustGrid(t, 4, 4)
	a := mustGrid(t, 4, 4)
	v.Set(1, 1, 1)

	if err := op.Apply(v, a); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	expected := map[[2]int]float64{
		{1, 1}: -4,
		{0, 1}: 1,
		{2, 1}: 1,
		{1, 0}: 1,
		{1, 2}: 1,
	}
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			want := expected[[2]int{i, j}]
			if got := a.At(i, j); got != want {
				t.Errorf("acc(%d,%d) = %f, expected %f", i, j, got, want)
			}
		}
	}
}

func TestPeriodicBoundaryAtCorner(t *testing.T) {
	op, _ := NewLaplacian(1, 1, 1)
	nx, ny := 5, 4
	v := mustGrid(t, nx, ny)
	a := mustGrid(t, nx, ny)
	v.Set(0, 0, 1)

	if err := op.Apply(v, a); err != nil {
		t.Fatal(err)
	}

	neighbours := [][2]int{{nx - 1, 0}, {1, 0}, {0, ny - 1}, {0, 1}}
	for _, n := range neighbours {
		if got := a.At(n[0], n[1]); got != 1 {
			t.Errorf("wrap neighbour (%d,%d) = %f, expected 1", n[0], n[1], got)
		}
	}
	if a.At(0, 0) != -4 {
		t.Errorf("centre = %f, expected -4", a.At(0, 0))
	}

	nonzero := 0
	for _, x := range a.Data() {
		if x != 0 {
			nonzero++
		}
	}
	if nonzero != 5 {
		t.Errorf("expected 5 nonzero cells, got %d", nonzero)
	}
}

func TestAnisotropicSpacing(t *testing.T) {
	op, _ := NewLaplacian(2, 0.5, 1)
	v := mustGrid(t, 4, 4)
	a := mustGrid(t, 4, 4)
	v.Set(2, 2, 1)

	if err := op.Apply(v, a); err != nil {
		t.Fatal(err)
	}

	// c^2 = 4, 1/dx^2 = 4, 1/dy^2 = 1
	if got := a.At(2, 2); got != 4*(-2*4-2*1) {
		t.Errorf("centre = %f, expected -40", got)
	}
	if got := a.At(1, 2); got != 16 {
		t.Errorf("x neighbour = %f, expected 16", got)
	}
	if got := a.At(2, 1); got != 4 {
		t.Errorf("y neighbour = %f, expected 4", got)
	}
}

func TestUniformFieldHasZeroLaplacian(t *testing.T) {
	op, _ := NewLaplacian(0.7, 0.3, 0.2)
	v := mustGrid(t, 8, 6)
	a := mustGrid(t, 8, 6)
	v.Fill(0.42)
	a.Fill(123)

	if err := op.Apply(v, a); err != nil {
		t.Fatal(err)
	}
	for idx, x := range a.Data() {
		if x != 0 {
			t.Fatalf("cell %d = %g, expected 0", idx, x)
		}
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	op, _ := NewLaplacian(0.01, 0.001, 0.001)
	nx, ny := 97, 131
	v := mustGrid(t, nx, ny)
	f, _ := field.New(nx, ny, field.SineProduct(nx, ny))
	v.CopyFrom(f.Value)

	a1 := mustGrid(t, nx, ny)
	a2 := mustGrid(t, nx, ny)

	prev := dynamo.Workers
	defer func() { dynamo.Workers = prev }()

	dynamo.Workers = 1
	if err := op.Apply(v, a1); err != nil {
		t.Fatal(err)
	}
	dynamo.Workers = 8
	if err := op.Apply(v, a2); err != nil {
		t.Fatal(err)
	}

	for i := range a1.Data() {
		if a1.Data()[i] != a2.Data()[i] {
			t.Fatalf("cell %d differs: %v vs %v", i, a1.Data()[i], a2.Data()[i])
		}
	}
}

func TestApplyShapeMismatch(t *testing.T) {
	op, _ := NewLaplacian(1, 1, 1)
	err := op.Apply(mustGrid(t, 4, 4), mustGrid(t, 4, 5))
	if !errors.Is(err, dynamo.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestApplyRejectsAliasing(t *testing.T) {
	op, _ := NewLaplacian(1, 1, 1)
	g := mustGrid(t, 4, 4)
	if err := op.Apply(g, g); !errors.Is(err, dynamo.ErrAliased) {
		t.Errorf("expected ErrAliased, got %v", err)
	}
}

func TestNewLaplacianValidation(t *testing.T) {
	tests := []struct {
		name      string
		c, dx, dy float64
	}{
		{"zero c", 0, 1, 1},
		{"negative dx", 1, -1, 1},
		{"zero dy", 1, 1, 0},
		{"nan c", math.NaN(), 1, 1},
		{"inf dx", 1, math.Inf(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLaplacian(tt.c, tt.dx, tt.dy); !errors.Is(err, dynamo.ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestCFLLimit(t *testing.T) {
	limit := CFLLimit(0.01, 0.001, 0.001)
	if math.Abs(limit-0.0707106781) > 1e-9 {
		t.Errorf("expected ~0.0707, got %f", limit)
	}
	if n := CFLNumber(0.01, 0.01, 0.001, 0.001); n >= 1 {
		t.Errorf("expected reference parameters to be stable, got %f", n)
	}
	if got := CFLLimit(1, 2, 0.5); math.Abs(got-0.5/math.Sqrt2) > 1e-15 {
		t.Errorf("expected limit to use the smaller spacing, got %.17g", got)
	}
	if got := CFLLimit(1, 0.5, 2); math.Abs(got-0.5/math.Sqrt2) > 1e-15 {
		t.Errorf("spacing order should not matter, got %.17g", got)
	}
}
