package automation

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/experiment"
	"github.com/san-kum/wave2d/internal/storage"
)

const scenarioYAML = `
name: smoke
description: two small runs
ticks: 20
runs:
  - name: small-impulse
    preset: impulse
    width: 16
    height: 16
    seed: {kind: impulse, amplitude: 1, x: 8, y: 8}
    save: true
  - preset: mode
    width: 16
    height: 16
    ticks: 10
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "smoke" || len(sc.Runs) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	cfg, err := sc.Resolve(0)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "small-impulse" || cfg.Grid.Width != 16 || cfg.Ticks != 20 {
		t.Errorf("run 1 resolved wrong: %+v", cfg)
	}
	if cfg.Seed.X != 8 {
		t.Errorf("seed override lost: %+v", cfg.Seed)
	}

	cfg, err = sc.Resolve(1)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "mode" || cfg.Ticks != 10 || cfg.Probe.X != 8 {
		t.Errorf("run 2 resolved wrong: name=%s ticks=%d", cfg.Name, cfg.Ticks)
	}
}

func TestParseScenarioRejectsEmpty(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without runs")
	}
}

func TestResolveUnknownPreset(t *testing.T) {
	sc, _ := ParseScenario([]byte("name: x\nruns:\n  - preset: nope\n"))
	if _, err := sc.Resolve(0); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunScenario(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		sc, err := ParseScenario([]byte(scenarioYAML))
		if err != nil {
			t.Fatal(err)
		}
		sc.Parallel = parallel
		store := storage.New(t.TempDir())
		if err := store.Init(); err != nil {
			t.Fatal(err)
		}

		var out bytes.Buffer
		outcomes, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), store, &out)
		if err != nil {
			t.Fatalf("parallel=%v: %v", parallel, err)
		}
		if len(outcomes) != 2 {
			t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
		}
		if outcomes[0].Result.TicksTaken != 20 || outcomes[1].Result.TicksTaken != 10 {
			t.Errorf("ticks taken: %d, %d", outcomes[0].Result.TicksTaken, outcomes[1].Result.TicksTaken)
		}
		if outcomes[0].RunID == "" || outcomes[1].RunID != "" {
			t.Errorf("only the first run should be saved: %q %q", outcomes[0].RunID, outcomes[1].RunID)
		}
		runs, _ := store.List()
		if len(runs) != 1 {
			t.Errorf("expected 1 stored run, got %d", len(runs))
		}
	}
}

func TestRunScenarioKeepsGoingAfterBlowup(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: mixed
runs:
  - preset: unstable
    width: 16
    height: 16
    ticks: 300
  - preset: impulse
    width: 16
    height: 16
    ticks: 5
`))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	outcomes, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(outcomes[0].Err, dynamo.ErrUnstable) {
		t.Errorf("expected unstable first run, got %v", outcomes[0].Err)
	}
	if outcomes[1].Err != nil || outcomes[1].Result.TicksTaken != 5 {
		t.Errorf("second run should complete: %v", outcomes[1].Err)
	}
	if !strings.Contains(out.String(), "warning") {
		t.Error("expected a CFL warning for the unstable preset")
	}
}

func TestLoadScenarioRelativeConfig(t *testing.T) {
	dir := t.TempDir()
	cfgYAML := "name: fromfile\ngrid: {width: 12, height: 10}\ndx: 1\ndy: 1\nc: 1\ndt: 0.2\nticks: 7\nseed: {kind: sines}\n"
	if err := os.WriteFile(filepath.Join(dir, "wave.yaml"), []byte(cfgYAML), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte("name: file\nruns:\n  - config: wave.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := sc.Resolve(0)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "fromfile" || cfg.Grid.Width != 12 || cfg.Ticks != 7 {
		t.Errorf("config file not applied: %+v", cfg)
	}
}

func TestRunSweepFindsCFLBoundary(t *testing.T) {
	base, err := baseConfig("impulse", "", "")
	if err != nil {
		t.Fatal(err)
	}
	base.Grid.Width, base.Grid.Height = 16, 16
	base.Seed.X, base.Seed.Y = 8, 8
	base.Probe.X, base.Probe.Y = 4, 4

	// dx=dy=c=1 puts the limit at 1/sqrt(2) ~ 0.707.
	results, err := RunSweep(context.Background(), base, SweepSpec{Param: "dt", Min: 0.2, Max: 1.2, Steps: 6, Ticks: 400}, experiment.NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.CFL <= 1 && !r.Stable {
			t.Errorf("dt=%.2f (cfl %.2f) should be stable: %v", r.Value, r.CFL, r.Err)
		}
		if r.CFL > 1.3 && r.Stable {
			t.Errorf("dt=%.2f (cfl %.2f) should blow up", r.Value, r.CFL)
		}
	}
	boundary, ok := StabilityBoundary(results)
	if !ok || boundary < 0.55 || boundary > 0.75 {
		t.Errorf("boundary %.2f outside expected range", boundary)
	}
}

func TestRunSweepValidation(t *testing.T) {
	base, _ := baseConfig("impulse", "", "")
	r := experiment.NewRegistry()
	if _, err := RunSweep(context.Background(), base, SweepSpec{Param: "ticks", Min: 1, Max: 2, Steps: 3}, r, nil); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := RunSweep(context.Background(), base, SweepSpec{Param: "dt", Min: 1, Max: 2, Steps: 1}, r, nil); err == nil {
		t.Error("expected error for too few steps")
	}
}
