package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/wave2d/internal/automation"
	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/experiment"
	"github.com/san-kum/wave2d/internal/export"
	"github.com/san-kum/wave2d/internal/field"
	"github.com/san-kum/wave2d/internal/sim"
	"github.com/san-kum/wave2d/internal/storage"
	"github.com/san-kum/wave2d/internal/viz"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %dx%d, %d ticks, cfl %.3f\n", cfg.Name, cfg.Grid.Width, cfg.Grid.Height, cfg.Ticks, cfg.Params().CFLNumber())
	start := time.Now()
	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}

	runID, err := st.Save(cfg, result, runErr)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if runErr != nil {
		return fmt.Errorf("run %s stopped early: %w", runID, runErr)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := experiment.Build(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	return viz.Run(s, viz.LiveOptions{
		Title:         cfg.Name,
		FPS:           cfg.View.FPS,
		StepsPerFrame: cfg.View.StepsPerFrame,
		Palette:       palette,
		GIFPath:       gifPath,
	})
}

func snapshot(cmd *cobra.Command, args []string) error {
	var g *field.Grid
	if len(args) == 1 {
		nx, ny, value, err := storage.New(dataDir).LoadValue(args[0])
		if err != nil {
			return err
		}
		g, err = field.NewGrid(nx, ny)
		if err != nil {
			return err
		}
		copy(g.Data(), value)
	} else {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		s, err := experiment.Build(cfg, experiment.NewRegistry())
		if err != nil {
			return err
		}
		if cfg.Ticks > 0 {
			if _, err := s.Run(context.Background(), cfg.Ticks); err != nil {
				return err
			}
		}
		g = s.Field().Value
	}

	r := viz.AutoRange(g.Data())
	pal := viz.GetPalette(palette)
	if strings.HasSuffix(outPath, ".svg") {
		if err := os.WriteFile(outPath, []byte(export.GridToSVG(g, pal, r, float64(scale))), 0644); err != nil {
			return err
		}
	} else if err := viz.SavePNG(outPath, g, pal, r, scale); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d, range [%.4g, %.4g])\n", outPath, g.Nx*scale, g.Ny*scale, r.Min, r.Max)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tGRID\tDX\tDT\tC\tCFL\tTICKS\tSEED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%g\t%g\t%g\t%.3f\t%d\t%s\n",
			name, p.Grid.Width, p.Grid.Height, p.Dx, p.Dt, p.C, p.Params().CFLNumber(), p.Ticks, p.Seed.Kind)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nseeds: %v\n", experiment.NewRegistry().ListSeeds())
	fmt.Printf("palettes: %v\n", viz.PaletteNames())
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	counts := []int{1, runtime.GOMAXPROCS(0)}
	if counts[1] == 1 {
		counts = counts[:1]
	}
	defer func(w int) { dynamo.Workers = w }(dynamo.Workers)

	fmt.Printf("benchmarking %d ticks per grid\n\n", benchTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tWORKERS\tTIME\tTICKS/SEC\tMCELLS/SEC")

	for _, n := range benchSizes {
		for _, k := range counts {
			dynamo.Workers = k
			s, err := sim.New(sim.Config{
				Nx: n, Ny: n,
				Params: sim.Params{Dx: 1, Dy: 1, C: 1, Dt: 0.5},
				Seed:   field.SineProduct(n, n),
			})
			if err != nil {
				return err
			}
			start := time.Now()
			for i := 0; i < benchTicks; i++ {
				if err := s.Tick(); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)
			perSec := float64(benchTicks) / elapsed.Seconds()
			fmt.Fprintf(w, "%dx%d\t%d\t%v\t%.0f\t%.1f\n", n, n, k, elapsed.Round(time.Microsecond), perSec, perSec*float64(n*n)/1e6)
		}
	}
	return w.Flush()
}

func showCFL(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p := cfg.Params()
	fmt.Printf("dx=%g dy=%g c=%g dt=%g\n", p.Dx, p.Dy, p.C, p.Dt)
	fmt.Printf("cfl limit: dt <= %.6g\n", p.CFLLimit())
	fmt.Printf("cfl ratio: %.4f\n", p.CFLNumber())
	if p.CFLNumber() > 1 {
		fmt.Println(viz.ErrorStyle.Render("unstable"))
	} else {
		fmt.Println(viz.SuccessStyle.Render("stable"))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !scenarioNoStore {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := experiment.NewRegistry()
	fmt.Println(viz.GradientText(sc.Name, "#00ffff", "#ff00ff"))
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}

	if len(sc.Runs) > 0 {
		outcomes, err := automation.RunScenario(ctx, sc, registry, st, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tTICKS\tDRIFT\tSTATUS\tID")
		for _, o := range outcomes {
			status, ticks, drift := "ok", 0, 0.0
			if o.Err != nil {
				status = o.Err.Error()
			}
			if o.Result != nil {
				ticks, drift = o.Result.TicksTaken, o.Result.EnergyDrift
			}
			fmt.Fprintf(w, "%s\t%d\t%.2e\t%s\t%s\n", o.Name, ticks, drift, status, o.RunID)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if sc.Sweep != nil {
		base, err := sc.SweepBase()
		if err != nil {
			return err
		}
		results, err := automation.RunSweep(ctx, base, *sc.Sweep, registry, os.Stdout)
		if err != nil {
			return err
		}
		printSweep(sc.Sweep.Param, results)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	spec := automation.SweepSpec{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.RunSweep(ctx, cfg, spec, experiment.NewRegistry(), os.Stdout)
	if err != nil {
		return err
	}
	printSweep(sweepParam, results)
	return nil
}

func printSweep(param string, results []automation.SweepResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCFL\tTICKS\tDRIFT\tMAX|U|\tSTABLE\n", param)
	for _, r := range results {
		stable := viz.SuccessStyle.Render("yes")
		if !r.Stable {
			stable = viz.ErrorStyle.Render("no")
		}
		fmt.Fprintf(w, "%.4g\t%.3f\t%d\t%.2e\t%.3g\t%s\n", r.Value, r.CFL, r.TicksTaken, r.EnergyDrift, r.MaxAbs, stable)
	}
	w.Flush()

	if v, ok := automation.StabilityBoundary(results); ok {
		fmt.Printf("\nlargest stable %s: %.4g\n", param, v)
	} else {
		fmt.Println("\nno stable point")
	}
}
