package main

import (
	"fmt"
	"os"

	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/dynamo"
	"github.com/san-kum/wave2d/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	// Config file
	configFile string
	// Preset name
	preset string

	width, height   int
	dx, dy, c, dt   float64
	ticks           int
	sampleEvery     int
	strict          bool
	blowup          float64
	seedKind        string
	amplitude       float64
	seedX, seedY    float64
	sigma           float64
	modeKX, modeKY  int
	velocity        float64
	probeX, probeY  int
	workers         int
	frameRate       int
	stepsPerFrame   int
	palette         string
	gifPath         string
	outPath         string
	scale           int
	withValue       bool
	saveConfig      string
	sweepParam      string
	sweepMin        float64
	sweepMax        float64
	sweepSteps      int
	benchTicks      int
	benchSizes      []int
	scenarioNoStore bool
	svgDir          string
)

// main registers the wave2d commands and exits 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "wave2d",
		Short:         "2D periodic wave equation simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			dynamo.Workers = workers
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wave2d", "data directory")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "stencil worker goroutines (0 = GOMAXPROCS)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the field evolve as a terminal heat map",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "target frames per second")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps", 1, "ticks per frame")
	liveCmd.Flags().StringVar(&palette, "palette", "classic", "color palette")
	liveCmd.Flags().StringVar(&gifPath, "gif", "wave2d.gif", "GIF recording path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy, amplitude and probe of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write the plots as SVG files into this directory")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of the probe cell",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withValue, "value", false, "include the final value grid")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export samples (or the final grid) as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&withValue, "value", false, "export the final value grid instead of samples")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render a stored run, or a fresh simulation, to PNG or SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addSimFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "wave2d.png", "output path (.png or .svg)")
	snapshotCmd.Flags().StringVar(&palette, "palette", "classic", "color palette")
	snapshotCmd.Flags().IntVar(&scale, "scale", 4, "pixels per cell")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, seeds and palettes",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput across grid sizes",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 200, "ticks per measurement")
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{64, 128, 256, 512}, "square grid sizes")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&scenarioNoStore, "no-save", false, "do not persist runs marked save")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep dt, c, dx or dy and report where the field blows up",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dt", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "points", 10, "number of values")

	cflCmd := &cobra.Command{
		Use:   "cfl",
		Short: "show the CFL limit for a configuration",
		Args:  cobra.NoArgs,
		RunE:  showCFL,
	}
	addSimFlags(cflCmd)

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, snapshotCmd, presetsCmd, benchCmd, scenarioCmd, sweepCmd, cflCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&width, "width", config.DefaultWidth, "grid width (Nx)")
	f.IntVar(&height, "height", config.DefaultHeight, "grid height (Ny)")
	f.Float64Var(&dx, "dx", config.DefaultDx, "cell spacing in x")
	f.Float64Var(&dy, "dy", config.DefaultDy, "cell spacing in y")
	f.Float64Var(&c, "c", config.DefaultC, "wave speed")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	f.IntVar(&sampleEvery, "sample-every", 1, "record a sample every n ticks")
	f.BoolVar(&strict, "strict", false, "refuse dt above the CFL limit")
	f.Float64Var(&blowup, "blowup", 0, "stop once |value| exceeds this (0 = off)")
	f.StringVar(&seedKind, "seed", config.DefaultSeedKind, "initial value: sines, mode, uniform, impulse, gaussian, zero")
	f.Float64Var(&amplitude, "amp", 1, "seed amplitude")
	f.Float64Var(&seedX, "x", 0, "seed centre x (impulse, gaussian)")
	f.Float64Var(&seedY, "y", 0, "seed centre y (impulse, gaussian)")
	f.Float64Var(&sigma, "sigma", 2, "gaussian width in cells")
	f.IntVar(&modeKX, "kx", 1, "mode wave number in x")
	f.IntVar(&modeKY, "ky", 1, "mode wave number in y")
	f.Float64Var(&velocity, "velocity", 0, "initial velocity everywhere")
	f.IntVar(&probeX, "probe-x", config.DefaultWidth/4, "probe cell x")
	f.IntVar(&probeY, "probe-y", config.DefaultHeight/4, "probe cell y")
}

// resolveConfig applies preset < config file < explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}
	set("width", func() { cfg.Grid.Width = width })
	set("height", func() { cfg.Grid.Height = height })
	set("dx", func() { cfg.Dx = dx })
	set("dy", func() { cfg.Dy = dy })
	set("c", func() { cfg.C = c })
	set("dt", func() { cfg.Dt = dt })
	set("ticks", func() { cfg.Ticks = ticks })
	set("sample-every", func() { cfg.SampleEvery = sampleEvery })
	set("strict", func() { cfg.Strict = strict })
	set("blowup", func() { cfg.BlowupThreshold = blowup })
	set("seed", func() { cfg.Seed.Kind = seedKind })
	set("amp", func() { cfg.Seed.Amplitude = amplitude })
	set("x", func() { cfg.Seed.X = seedX })
	set("y", func() { cfg.Seed.Y = seedY })
	set("sigma", func() { cfg.Seed.Sigma = sigma })
	set("kx", func() { cfg.Seed.KX = modeKX })
	set("ky", func() { cfg.Seed.KY = modeKY })
	set("velocity", func() { cfg.Seed.Velocity = velocity })
	set("probe-x", func() { cfg.Probe.X = probeX })
	set("probe-y", func() { cfg.Probe.Y = probeY })
	set("fps", func() { cfg.View.FPS = frameRate })
	set("steps", func() { cfg.View.StepsPerFrame = stepsPerFrame })

	// a resized grid keeps the default probe inside it
	if !flags.Changed("probe-x") && cfg.Probe.X >= cfg.Grid.Width {
		cfg.Probe.X = cfg.Grid.Width / 4
	}
	if !flags.Changed("probe-y") && cfg.Probe.Y >= cfg.Grid.Height {
		cfg.Probe.Y = cfg.Grid.Height / 4
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w := cfg.CFLWarning(); w != "" {
		fmt.Fprintln(os.Stderr, viz.WarningStyle.Render("warning: ")+w)
	}
	return cfg, nil
}
