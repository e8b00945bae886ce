package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/integrators"
	"github.com/san-kum/wave2d/internal/metrics"
	"github.com/san-kum/wave2d/internal/stencil"
)

// Simulator owns one wave field and advances it tick by tick.
type Simulator struct {
	cfg        Config
	field      *field.Field
	integrator *integrators.Verlet
	tick       int
	t          float64
	metrics    []Metric
	observers  []Observer
}

// New validates cfg, allocates and seeds the field. Nothing is ticked.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Strict {
		if err := cfg.Params.CheckStability(); err != nil {
			return nil, err
		}
	}

	f, err := field.New(cfg.Nx, cfg.Ny, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if !f.Value.InBounds(cfg.ProbeX, cfg.ProbeY) {
		return nil, fmt.Errorf("probe: %w: (%d,%d)", dynamo.ErrOutOfBounds, cfg.ProbeX, cfg.ProbeY)
	}
	f.SetVelocity(cfg.InitialVelocity)

	op, err := stencil.NewLaplacian(cfg.Params.C, cfg.Params.Dx, cfg.Params.Dy)
	if err != nil {
		return nil, err
	}

	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 1
	}

	return &Simulator{
		cfg:        cfg,
		field:      f,
		integrator: integrators.NewVerlet(op),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() Params      { return s.cfg.Params }
func (s *Simulator) Size() (int, int)    { return s.cfg.Nx, s.cfg.Ny }
func (s *Simulator) Time() float64       { return s.t }
func (s *Simulator) Ticks() int          { return s.tick }
func (s *Simulator) Field() *field.Field { return s.field }

// Snapshot copies the value grid, row-major.
func (s *Simulator) Snapshot() []float64 { return s.field.Value.Snapshot() }

// SnapshotInto copies the value grid into dst, growing it if needed.
func (s *Simulator) SnapshotInto(dst []float64) []float64 {
	n := s.field.Value.Len()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	copy(dst, s.field.Value.Data())
	return dst
}

func (s *Simulator) Energy() float64 {
	p := s.cfg.Params
	return metrics.FieldEnergy(s.field, p.C, p.Dx, p.Dy)
}

func (s *Simulator) Sample() Sample {
	return Sample{
		Tick:   s.tick,
		Time:   s.t,
		Energy: s.Energy(),
		MaxAbs: s.field.Value.MaxAbs(),
		Probe:  s.field.Value.At(s.cfg.ProbeX, s.cfg.ProbeY),
	}
}

// Reset reseeds the field and rewinds the clock.
func (s *Simulator) Reset() {
	s.field.Reset(s.cfg.Seed, s.cfg.InitialVelocity)
	s.tick = 0
	s.t = 0
}

// Tick advances the field by one dt.
func (s *Simulator) Tick() error {
	if err := s.integrator.Step(s.field, s.cfg.Params.Dt); err != nil {
		return &dynamo.TickError{Tick: s.tick, Time: s.t, Wrapped: err}
	}
	s.tick++
	s.t = float64(s.tick) * s.cfg.Params.Dt

	if s.cfg.ValidateState && !s.field.Value.IsValid() {
		return &dynamo.TickError{Tick: s.tick, Time: s.t, Wrapped: dynamo.ErrInvalidState}
	}
	if s.cfg.BlowupThreshold > 0 {
		if peak := s.field.Value.MaxAbs(); peak > s.cfg.BlowupThreshold || math.IsNaN(peak) {
			return &dynamo.TickError{
				Tick:    s.tick,
				Time:    s.t,
				Wrapped: fmt.Errorf("%w: |value| reached %g", dynamo.ErrUnstable, peak),
			}
		}
	}

	for _, obs := range s.observers {
		obs.OnTick(s.tick, s.t, s.field)
	}
	return nil
}

// Run advances ticks times and records a sample every SampleEvery ticks.
// On failure the partial result is returned alongside the error.
func (s *Simulator) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrInvalidParams, ticks)
	}

	result := &Result{
		Nx:      s.cfg.Nx,
		Ny:      s.cfg.Ny,
		Samples: make([]Sample, 0, ticks/s.cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.field, s.t)
	}

	initial := s.Sample()
	result.Samples = append(result.Samples, initial)

	var runErr error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if err := s.Tick(); err != nil {
			runErr = err
			break
		}
		result.TicksTaken++

		for _, m := range s.metrics {
			m.Observe(s.field, s.t)
		}
		if result.TicksTaken%s.cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, s.Sample())
		}
	}

	if initial.Energy != 0 {
		result.EnergyDrift = math.Abs(s.Energy()-initial.Energy) / math.Abs(initial.Energy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.Snapshot()

	return result, runErr
}

// RunWithCallback ticks until the callback returns false, ctx is done, or
// ticks have elapsed. ticks <= 0 runs until stopped.
func (s *Simulator) RunWithCallback(ctx context.Context, ticks int, callback func(tick int, t float64, value []float64) bool) error {
	buf := s.Snapshot()
	for n := 0; ticks <= 0 || n < ticks; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.tick, s.t, buf) {
			return nil
		}
		if err := s.Tick(); err != nil {
			return err
		}
		buf = s.SnapshotInto(buf)
	}
	return nil
}
