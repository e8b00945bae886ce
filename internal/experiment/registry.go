package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/metrics"
	"github.com/san-kum/wave2d/internal/sim"
)

// SeedFactory builds a seed function for an nx by ny grid.
type SeedFactory func(sc config.SeedConfig, nx, ny int) field.SeedFunc

type Registry struct {
	seeds map[string]SeedFactory
}

func NewRegistry() *Registry {
	r := &Registry{seeds: make(map[string]SeedFactory)}

	r.seeds["sines"] = func(sc config.SeedConfig, nx, ny int) field.SeedFunc {
		base := field.SineProduct(nx, ny)
		if sc.Amplitude == 0 || sc.Amplitude == 1 {
			return base
		}
		return func(i, j int) float64 { return sc.Amplitude * base(i, j) }
	}
	r.seeds["mode"] = func(sc config.SeedConfig, nx, ny int) field.SeedFunc {
		kx, ky := sc.KX, sc.KY
		if kx == 0 && ky == 0 {
			kx, ky = 1, 1
		}
		return field.Mode(nx, ny, kx, ky, amplitude(sc))
	}
	r.seeds["uniform"] = func(sc config.SeedConfig, nx, ny int) field.SeedFunc {
		return field.Uniform(sc.Amplitude)
	}
	r.seeds["impulse"] = func(sc config.SeedConfig, nx, ny int) field.SeedFunc {
		i0 := ((int(sc.X) % nx) + nx) % nx
		j0 := ((int(sc.Y) % ny) + ny) % ny
		return field.Impulse(i0, j0, amplitude(sc))
	}
	r.seeds["gaussian"] = func(sc config.SeedConfig, nx, ny int) field.SeedFunc {
		return field.Gaussian(nx, ny, sc.X, sc.Y, sc.Sigma, amplitude(sc))
	}
	r.seeds["zero"] = func(config.SeedConfig, int, int) field.SeedFunc {
		return nil
	}

	return r
}

func amplitude(sc config.SeedConfig) float64 {
	if sc.Amplitude == 0 {
		return 1
	}
	return sc.Amplitude
}

func (r *Registry) GetSeed(sc config.SeedConfig, nx, ny int) (field.SeedFunc, error) {
	fn, ok := r.seeds[sc.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown seed: %s (available: %v)", sc.Kind, r.ListSeeds())
	}
	return fn(sc, nx, ny), nil
}

func (r *Registry) ListSeeds() []string {
	names := make([]string, 0, len(r.seeds))
	for name := range r.seeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	threshold := cfg.BlowupThreshold
	if threshold <= 0 {
		threshold = 1e3
	}
	return []sim.Metric{
		metrics.NewEnergy(cfg.C, cfg.Dx, cfg.Dy),
		metrics.NewEnergyDrift(cfg.C, cfg.Dx, cfg.Dy),
		metrics.NewMaxAmplitude(),
		metrics.NewStability(threshold),
		metrics.NewRMSVelocity(),
	}
}
