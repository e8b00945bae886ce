package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/experiment"
	"github.com/san-kum/wave2d/internal/sim"
	"github.com/san-kum/wave2d/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of simulations.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Parallel runs every step at once on a sim.Ensemble.
	Parallel bool       `yaml:"parallel"`
	Ticks    int        `yaml:"ticks"`
	Runs     []RunSpec  `yaml:"runs"`
	Sweep    *SweepSpec `yaml:"sweep"`

	dir string
}

// RunSpec is a single run. The config starts from Preset (or the defaults),
// is replaced by Config when a file is given, then patched with the
// non-zero overrides.
type RunSpec struct {
	Name   string              `yaml:"name"`
	Preset string              `yaml:"preset"`
	Config string              `yaml:"config"`
	Ticks  int                 `yaml:"ticks"`
	Width  int                 `yaml:"width"`
	Height int                 `yaml:"height"`
	Dx     float64             `yaml:"dx"`
	Dy     float64             `yaml:"dy"`
	C      float64             `yaml:"c"`
	Dt     float64             `yaml:"dt"`
	Seed   *config.SeedConfig  `yaml:"seed"`
	Probe  *config.ProbeConfig `yaml:"probe"`
	Save   bool                `yaml:"save"`
}

// Outcome is the result of one scenario run. Err holds a failure that
// stopped the run early; Result is still the partial history.
type Outcome struct {
	Name   string
	Config *config.Config
	Result *sim.Result
	Err    error
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Runs) == 0 && sc.Sweep == nil {
		return nil, fmt.Errorf("scenario %q has no runs", sc.Name)
	}
	return &sc, nil
}

// Resolve builds the config for run i.
func (sc *Scenario) Resolve(i int) (*config.Config, error) {
	spec := sc.Runs[i]
	cfg, err := baseConfig(spec.Preset, spec.Config, sc.dir)
	if err != nil {
		return nil, err
	}
	if spec.Width > 0 {
		cfg.Grid.Width = spec.Width
	}
	if spec.Height > 0 {
		cfg.Grid.Height = spec.Height
	}
	if spec.Dx > 0 {
		cfg.Dx = spec.Dx
	}
	if spec.Dy > 0 {
		cfg.Dy = spec.Dy
	}
	if spec.C > 0 {
		cfg.C = spec.C
	}
	if spec.Dt > 0 {
		cfg.Dt = spec.Dt
	}
	if spec.Seed != nil {
		cfg.Seed = *spec.Seed
	}
	if spec.Probe != nil {
		cfg.Probe = *spec.Probe
	}
	// probes left outside a shrunk grid wrap around like the field does
	cfg.Probe.X = wrap(cfg.Probe.X, cfg.Grid.Width)
	cfg.Probe.Y = wrap(cfg.Probe.Y, cfg.Grid.Height)
	switch {
	case spec.Ticks > 0:
		cfg.Ticks = spec.Ticks
	case sc.Ticks > 0:
		cfg.Ticks = sc.Ticks
	}
	if spec.Name != "" {
		cfg.Name = spec.Name
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("%s-%d", sc.Name, i+1)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func wrap(i, n int) int {
	if n <= 0 {
		return i
	}
	return ((i % n) + n) % n
}

// SweepBase returns the config the scenario's sweep starts from.
func (sc *Scenario) SweepBase() (*config.Config, error) {
	if sc.Sweep == nil {
		return nil, fmt.Errorf("scenario %q has no sweep", sc.Name)
	}
	return baseConfig(sc.Sweep.Preset, "", sc.dir)
}

func baseConfig(preset, file, dir string) (*config.Config, error) {
	if file != "" {
		if !filepath.IsAbs(file) && dir != "" {
			file = filepath.Join(dir, file)
		}
		return config.Load(file)
	}
	if preset == "" {
		return config.DefaultConfig(), nil
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
	return cfg, nil
}

// RunScenario executes the scenario's runs. Setup errors abort; a run that
// fails part way is reported in its Outcome and the scenario moves on.
// Runs marked save are persisted when store is not nil.
func RunScenario(ctx context.Context, sc *Scenario, registry *experiment.Registry, store *storage.Store, out io.Writer) ([]Outcome, error) {
	if out == nil {
		out = io.Discard
	}
	outcomes := make([]Outcome, len(sc.Runs))
	exps := make([]*experiment.Experiment, len(sc.Runs))
	for i := range sc.Runs {
		cfg, err := sc.Resolve(i)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		if w := cfg.CFLWarning(); w != "" {
			fmt.Fprintf(out, "warning: %s: %s\n", cfg.Name, w)
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("run %d setup: %w", i+1, err)
		}
		exps[i] = exp
		outcomes[i] = Outcome{Name: cfg.Name, Config: cfg}
	}

	if sc.Parallel {
		fmt.Fprintf(out, "Running %d runs in parallel\n", len(exps))
		sims := make([]*sim.Simulator, len(exps))
		ticks := make([]int, len(exps))
		for i, exp := range exps {
			sims[i] = exp.GetSimulator()
			ticks[i] = exp.Config().Ticks
		}
		results, errs := sim.NewEnsemble(sims...).RunEach(ctx, ticks)
		for i := range outcomes {
			outcomes[i].Result, outcomes[i].Err = results[i], errs[i]
		}
	} else {
		for i, exp := range exps {
			fmt.Fprintf(out, "Running step %d/%d: %s (%d ticks)\n", i+1, len(exps), outcomes[i].Name, exp.Config().Ticks)
			outcomes[i].Result, outcomes[i].Err = exp.Run(ctx)
			if ctx.Err() != nil {
				return outcomes[:i+1], ctx.Err()
			}
		}
	}

	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != nil {
			fmt.Fprintf(out, "  %s: %v\n", o.Name, o.Err)
		}
		if store == nil || !sc.Runs[i].Save || o.Result == nil {
			continue
		}
		id, err := store.Save(o.Config, o.Result, o.Err)
		if err != nil {
			return outcomes, fmt.Errorf("save %s: %w", o.Name, err)
		}
		o.RunID = id
		fmt.Fprintf(out, "  saved %s as %s\n", o.Name, id)
	}
	if ctx.Err() != nil {
		return outcomes, ctx.Err()
	}
	return outcomes, nil
}
