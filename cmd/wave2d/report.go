package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/wave2d/internal/analysis"
	"github.com/san-kum/wave2d/internal/export"
	"github.com/san-kum/wave2d/internal/sim"
	"github.com/san-kum/wave2d/internal/storage"
	"github.com/san-kum/wave2d/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tDT\tCFL\tTICKS\tDRIFT\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "stopped"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%g\t%.3f\t%d/%d\t%.2e\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Dt,
			run.CFL,
			run.TicksTaken, run.Ticks,
			run.EnergyDrift,
			status,
		)
	}

	return w.Flush()
}

func column(samples []sim.Sample, pick func(sim.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = pick(s)
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d  seed: %s\n", meta.Width, meta.Height, meta.Seed)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		data    []float64
	}{
		{"energy", column(samples, func(s sim.Sample) float64 { return s.Energy })},
		{"max |u|", column(samples, func(s sim.Sample) float64 { return s.MaxAbs })},
		{fmt.Sprintf("probe u(%d,%d)", meta.Probe[0], meta.Probe[1]), column(samples, func(s sim.Sample) float64 { return s.Probe })},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	if svgDir != "" {
		if err := os.MkdirAll(svgDir, 0755); err != nil {
			return err
		}
		for i, name := range []string{"energy", "max_abs", "probe"} {
			path := filepath.Join(svgDir, name+".svg")
			svg := export.SeriesToSVG(series[i].data, 800, 300, "#00ff88", series[i].caption)
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
	}
	if meta.Error != "" {
		fmt.Println(viz.WarningStyle.Render("run stopped: ") + meta.Error)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data")
	}

	result := &sim.Result{Nx: meta.Width, Ny: meta.Height, Samples: samples}
	probe, interval := result.Probe()

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("probe: (%d,%d)  samples: %d  interval: %g\n\n", meta.Probe[0], meta.Probe[1], len(probe), interval)

	ps := analysis.PowerSpectrum(probe)
	if len(ps) > 8 {
		graph := asciigraph.Plot(ps[:len(ps)/2],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (probe)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, err := analysis.DominantFrequency(probe, interval)
	if errors.Is(err, analysis.ErrShortSeries) {
		fmt.Println("series too short for a spectrum")
		return nil
	} else if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.5g hz (resolution %.2g)\n", freq, analysis.BinWidth(len(probe), interval))
	if freq > 0 {
		fmt.Printf("period: %.5g s\n", 1.0/freq)
	}

	if meta.Seed == "mode" {
		kx, ky := meta.ModeK[0], meta.ModeK[1]
		if kx == 0 && ky == 0 {
			kx, ky = 1, 1
		}
		w := analysis.ModeAngularFrequency(kx, ky, meta.Width, meta.Height, meta.C, meta.Dx, meta.Dy)
		fmt.Printf("\nmode (%d,%d) semi-discrete: %.5g hz\n", kx, ky, analysis.ModeFrequency(kx, ky, meta.Width, meta.Height, meta.C, meta.Dx, meta.Dy))
		fmt.Printf("mode (%d,%d) with dt=%g: %.5g hz\n", kx, ky, meta.Dt, analysis.StepFrequency(w, meta.Dt))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSONStdout(args[0], withValue)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if withValue {
		nx, ny, value, err := st.LoadValue(runID)
		if err != nil {
			return err
		}
		row := make([]string, nx)
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				row[i] = strconv.FormatFloat(value[j*nx+i], 'g', -1, 64)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	if err := w.Write([]string{"tick", "time", "energy", "max_abs", "probe"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Tick),
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Energy, 'g', -1, 64),
			strconv.FormatFloat(s.MaxAbs, 'g', -1, 64),
			strconv.FormatFloat(s.Probe, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
