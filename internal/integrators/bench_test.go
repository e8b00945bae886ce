package integrators

import (
	"testing"

	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/stencil"
)

func benchmarkStep(b *testing.B, n int) {
	f, _ := field.New(n, n, field.SineProduct(n, n))
	op, _ := stencil.NewLaplacian(0.01, 0.001, 0.001)
	integ := NewVerlet(op)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := integ.Step(f, 0.01); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStep128(b *testing.B) { benchmarkStep(b, 128) }
func BenchmarkStep512(b *testing.B) { benchmarkStep(b, 512) }
