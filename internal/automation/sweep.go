package automation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/experiment"
	"github.com/san-kum/wave2d/internal/sim"
)

// SweepSpec varies one parameter of a base config over [Min, Max].
type SweepSpec struct {
	Preset string  `yaml:"preset"`
	Param  string  `yaml:"param"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Steps  int     `yaml:"steps"`
	Ticks  int     `yaml:"ticks"`
}

// SweepResult summarises one point of a sweep.
type SweepResult struct {
	Value       float64
	CFL         float64
	TicksTaken  int
	EnergyDrift float64
	MaxAbs      float64
	// Stable is false when the run stopped on a blow-up or non-finite value.
	Stable bool
	Err    error
}

var sweepParams = map[string]func(*config.Config, float64){
	"dt": func(c *config.Config, v float64) { c.Dt = v },
	"c":  func(c *config.Config, v float64) { c.C = v },
	"dx": func(c *config.Config, v float64) { c.Dx = v },
	"dy": func(c *config.Config, v float64) { c.Dy = v },
}

// RunSweep runs every point of the sweep side by side. Points where the field
// blows up are reported unstable rather than failing the sweep.
func RunSweep(ctx context.Context, base *config.Config, sw SweepSpec, registry *experiment.Registry, out io.Writer) ([]SweepResult, error) {
	if out == nil {
		out = io.Discard
	}
	set, ok := sweepParams[sw.Param]
	if !ok {
		return nil, fmt.Errorf("cannot sweep %q (want dt, c, dx or dy)", sw.Param)
	}
	if sw.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sw.Steps)
	}
	if !(sw.Min > 0) || sw.Max < sw.Min {
		return nil, fmt.Errorf("sweep range [%g, %g] invalid", sw.Min, sw.Max)
	}

	step := (sw.Max - sw.Min) / float64(sw.Steps-1)
	results := make([]SweepResult, sw.Steps)
	sims := make([]*sim.Simulator, sw.Steps)
	ticks := make([]int, sw.Steps)
	for i := range results {
		v := sw.Min + float64(i)*step
		cfg := base.Clone()
		set(cfg, v)
		cfg.Strict = false
		if cfg.BlowupThreshold <= 0 {
			cfg.BlowupThreshold = 1e6
		}
		if sw.Ticks > 0 {
			cfg.Ticks = sw.Ticks
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sw.Param, v, err)
		}
		sims[i] = exp.GetSimulator()
		ticks[i] = cfg.Ticks
		results[i] = SweepResult{Value: v, CFL: cfg.Params().CFLNumber()}
	}

	fmt.Fprintf(out, "Sweeping %s over %d points\n", sw.Param, sw.Steps)
	runs, errs := sim.NewEnsemble(sims...).RunEach(ctx, ticks)
	for i, res := range runs {
		r := &results[i]
		r.Err = errs[i]
		r.Stable = errs[i] == nil
		if res != nil {
			r.TicksTaken = res.TicksTaken
			r.EnergyDrift = res.EnergyDrift
			if n := len(res.Samples); n > 0 {
				r.MaxAbs = res.Samples[n-1].MaxAbs
			}
		}
		if errs[i] != nil && !errors.Is(errs[i], dynamo.ErrUnstable) && !errors.Is(errs[i], dynamo.ErrInvalidState) {
			return results, errs[i]
		}
	}
	return results, nil
}

// StabilityBoundary returns the largest swept value that stayed stable, and
// false when no point did.
func StabilityBoundary(results []SweepResult) (float64, bool) {
	best, found := 0.0, false
	for _, r := range results {
		if r.Stable && (!found || r.Value > best) {
			best, found = r.Value, true
		}
	}
	return best, found
}
