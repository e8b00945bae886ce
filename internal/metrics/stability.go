package metrics

import (
	"math"

	"github.com/san-kum/wave2d/internal/field"
)

// Stability is the fraction of observed ticks in which every cell stayed
// within threshold. NaN and Inf count as violations.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *field.Field, t float64) {
	s.samples++
	for _, val := range f.Value.Data() {
		if !(math.Abs(val) <= s.threshold) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxAmplitude is the largest |value| seen in any cell.
type MaxAmplitude struct {
	peak float64
}

func NewMaxAmplitude() *MaxAmplitude { return &MaxAmplitude{} }

func (m *MaxAmplitude) Name() string { return "max_amplitude" }

func (m *MaxAmplitude) Observe(f *field.Field, t float64) {
	m.peak = math.Max(m.peak, f.Value.MaxAbs())
}

func (m *MaxAmplitude) Value() float64 { return m.peak }
func (m *MaxAmplitude) Reset()         { m.peak = 0 }
