package config

import (
	"fmt"
	"os"

	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 128
	DefaultHeight   = 128
	DefaultDx       = 0.001
	DefaultDy       = 0.001
	DefaultC        = 0.01
	DefaultDt       = 0.01
	DefaultTicks    = 1000
	DefaultSeedKind = "sines"
	DefaultFPS      = 30
)

type Config struct {
	Name            string      `yaml:"name"`
	Grid            GridConfig  `yaml:"grid"`
	Dx              float64     `yaml:"dx"`
	Dy              float64     `yaml:"dy"`
	C               float64     `yaml:"c"`
	Dt              float64     `yaml:"dt"`
	Ticks           int         `yaml:"ticks"`
	SampleEvery     int         `yaml:"sample_every"`
	Strict          bool        `yaml:"strict"`
	BlowupThreshold float64     `yaml:"blowup_threshold"`
	Seed            SeedConfig  `yaml:"seed"`
	Probe           ProbeConfig `yaml:"probe"`
	View            ViewConfig  `yaml:"view"`
}

type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SeedConfig selects and parameterises the initial value function.
// X and Y are cell coordinates; Velocity fills the whole velocity grid.
type SeedConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Sigma     float64 `yaml:"sigma"`
	KX        int     `yaml:"kx"`
	KY        int     `yaml:"ky"`
	Velocity  float64 `yaml:"velocity"`
}

type ProbeConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type ViewConfig struct {
	FPS           int `yaml:"fps"`
	StepsPerFrame int `yaml:"steps_per_frame"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "default",
		Grid:        GridConfig{Width: DefaultWidth, Height: DefaultHeight},
		Dx:          DefaultDx,
		Dy:          DefaultDy,
		C:           DefaultC,
		Dt:          DefaultDt,
		Ticks:       DefaultTicks,
		SampleEvery: 1,
		Seed:        SeedConfig{Kind: DefaultSeedKind, Amplitude: 1, KX: 1, KY: 1},
		Probe:       ProbeConfig{X: DefaultWidth / 4, Y: DefaultHeight / 4},
		View:        ViewConfig{FPS: DefaultFPS, StepsPerFrame: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy, so presets are never mutated.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Params() sim.Params {
	return sim.Params{Dx: c.Dx, Dy: c.Dy, C: c.C, Dt: c.Dt}
}

// Validate checks everything that must be fixed before the first tick.
// A CFL violation is only an error when Strict is set; see CFLWarning.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", dynamo.ErrInvalidParams, c.Ticks)
	}
	if c.Probe.X < 0 || c.Probe.X >= c.Grid.Width || c.Probe.Y < 0 || c.Probe.Y >= c.Grid.Height {
		return fmt.Errorf("probe (%d,%d) outside %dx%d grid", c.Probe.X, c.Probe.Y, c.Grid.Width, c.Grid.Height)
	}
	if c.Strict {
		return c.Params().CheckStability()
	}
	return nil
}

// CFLWarning describes a CFL violation, or returns "" when dt is stable.
func (c *Config) CFLWarning() string {
	p := c.Params()
	if p.CFLNumber() <= 1 {
		return ""
	}
	return fmt.Sprintf("dt=%g exceeds the CFL limit %.4g (ratio %.2f); the field will blow up", p.Dt, p.CFLLimit(), p.CFLNumber())
}
