package config

import "sort"

var Presets = map[string]*Config{
	// 128x128 sine-product seed from rest.
	"reference": {
		Name: "reference", Grid: GridConfig{Width: 128, Height: 128},
		Dx: 0.001, Dy: 0.001, C: 0.01, Dt: 0.01, Ticks: 2000, SampleEvery: 1,
		Seed:  SeedConfig{Kind: "sines", Amplitude: 1},
		Probe: ProbeConfig{X: 32, Y: 32},
		View:  ViewConfig{FPS: 30, StepsPerFrame: 10},
	},
	// Reference seed with the constant 0.01 velocity of the first prototype.
	"drift": {
		Name: "drift", Grid: GridConfig{Width: 128, Height: 128},
		Dx: 0.001, Dy: 0.001, C: 0.01, Dt: 0.01, Ticks: 2000, SampleEvery: 1,
		Seed:  SeedConfig{Kind: "sines", Amplitude: 1, Velocity: 0.01},
		Probe: ProbeConfig{X: 32, Y: 32},
		View:  ViewConfig{FPS: 30, StepsPerFrame: 10},
	},
	"impulse": {
		Name: "impulse", Grid: GridConfig{Width: 64, Height: 64},
		Dx: 1, Dy: 1, C: 1, Dt: 0.5, Ticks: 400, SampleEvery: 1,
		Seed:  SeedConfig{Kind: "impulse", Amplitude: 1, X: 32, Y: 32},
		Probe: ProbeConfig{X: 40, Y: 32},
		View:  ViewConfig{FPS: 30, StepsPerFrame: 1},
	},
	"ripple": {
		Name: "ripple", Grid: GridConfig{Width: 96, Height: 64},
		Dx: 1, Dy: 1, C: 1, Dt: 0.5, Ticks: 600, SampleEvery: 2,
		Seed:  SeedConfig{Kind: "gaussian", Amplitude: 1, X: 20, Y: 32, Sigma: 3},
		Probe: ProbeConfig{X: 60, Y: 32},
		View:  ViewConfig{FPS: 30, StepsPerFrame: 2},
	},
	"mode": {
		Name: "mode", Grid: GridConfig{Width: 32, Height: 32},
		Dx: 1, Dy: 1, C: 1, Dt: 0.1, Ticks: 4096, SampleEvery: 1,
		Seed:  SeedConfig{Kind: "mode", Amplitude: 1, KX: 1, KY: 1},
		Probe: ProbeConfig{X: 8, Y: 8},
		View:  ViewConfig{FPS: 30, StepsPerFrame: 5},
	},
	// dt above the CFL limit; the blow-up check ends the run.
	"unstable": {
		Name: "unstable", Grid: GridConfig{Width: 64, Height: 64},
		Dx: 1, Dy: 1, C: 1, Dt: 0.8, Ticks: 500, SampleEvery: 1, BlowupThreshold: 1e6,
		Seed:  SeedConfig{Kind: "gaussian", Amplitude: 1, X: 32, Y: 32, Sigma: 2},
		Probe: ProbeConfig{X: 32, Y: 32},
		View:  ViewConfig{FPS: 30, StepsPerFrame: 1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
