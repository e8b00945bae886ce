package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/sim"
)

// Experiment is one configured simulation run.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the config and builds the simulator with the default
// metrics attached.
func (e *Experiment) Setup(registry *Registry) error {
	s, err := Build(e.cfg, registry)
	if err != nil {
		return err
	}
	for _, m := range registry.DefaultMetrics(e.cfg) {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.Ticks)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Build turns a config into a ready simulator without metrics.
func Build(cfg *config.Config, registry *Registry) (*sim.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nx, ny := cfg.Grid.Width, cfg.Grid.Height
	seed, err := registry.GetSeed(cfg.Seed, nx, ny)
	if err != nil {
		return nil, err
	}

	return sim.New(sim.Config{
		Nx:              nx,
		Ny:              ny,
		Params:          cfg.Params(),
		Seed:            seed,
		InitialVelocity: cfg.Seed.Velocity,
		Strict:          cfg.Strict,
		BlowupThreshold: cfg.BlowupThreshold,
		ValidateState:   true,
		SampleEvery:     cfg.SampleEvery,
		ProbeX:          cfg.Probe.X,
		ProbeY:          cfg.Probe.Y,
	})
}
