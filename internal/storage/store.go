package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	valueFile    = "value.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Dx          float64            `json:"dx"`
	Dy          float64            `json:"dy"`
	C           float64            `json:"c"`
	Dt          float64            `json:"dt"`
	CFL         float64            `json:"cfl"`
	Ticks       int                `json:"ticks"`
	TicksTaken  int                `json:"ticks_taken"`
	Seed        string             `json:"seed"`
	ModeK       [2]int             `json:"mode_k"`
	Probe       [2]int             `json:"probe"`
	EnergyDrift float64            `json:"energy_drift"`
	Error       string             `json:"error,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Duration is the simulated time actually covered.
func (m *RunMetadata) Duration() float64 {
	return float64(m.TicksTaken) * m.Dt
}

// Save writes a run directory and returns its id. runErr, if any, is
// recorded in the metadata so partial runs stay inspectable.
func (s *Store) Save(cfg *config.Config, result *sim.Result, runErr error) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   time.Now(),
		Width:       result.Nx,
		Height:      result.Ny,
		Dx:          cfg.Dx,
		Dy:          cfg.Dy,
		C:           cfg.C,
		Dt:          cfg.Dt,
		CFL:         cfg.Params().CFLNumber(),
		Ticks:       cfg.Ticks,
		TicksTaken:  result.TicksTaken,
		Seed:        cfg.Seed.Kind,
		Probe:       [2]int{cfg.Probe.X, cfg.Probe.Y},
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	if cfg.Seed.Kind == "mode" {
		meta.ModeK = [2]int{cfg.Seed.KX, cfg.Seed.KY}
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	if err := writeValue(filepath.Join(runDir, valueFile), result.Nx, result.Final); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"tick", "time", "energy", "max_abs", "probe"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Tick),
			formatFloat(s.Time),
			formatFloat(s.Energy),
			formatFloat(s.MaxAbs),
			formatFloat(s.Probe),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeValue stores the grid as Ny rows of Nx cells.
func writeValue(path string, nx int, value []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if nx > 0 {
		row := make([]string, nx)
		for start := 0; start+nx <= len(value); start += nx {
			for i, v := range value[start : start+nx] {
				row[i] = formatFloat(v)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) < 5 {
			return nil, fmt.Errorf("%s line %d: expected 5 fields, got %d", samplesFile, line+2, len(record))
		}
		var vals [4]float64
		for k := range vals {
			v, err := strconv.ParseFloat(record[k+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", samplesFile, line+2, err)
			}
			vals[k] = v
		}
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, line+2, err)
		}
		samples = append(samples, sim.Sample{Tick: tick, Time: vals[0], Energy: vals[1], MaxAbs: vals[2], Probe: vals[3]})
	}

	return samples, nil
}

// LoadValue returns the final value grid of a run, row-major.
func (s *Store) LoadValue(runID string) (nx, ny int, value []float64, err error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, valueFile))
	if err != nil {
		return 0, 0, nil, err
	}
	if len(records) == 0 {
		return 0, 0, []float64{}, nil
	}

	nx, ny = len(records[0]), len(records)
	value = make([]float64, 0, nx*ny)
	for j, record := range records {
		if len(record) != nx {
			return 0, 0, nil, fmt.Errorf("%s row %d: expected %d cells, got %d", valueFile, j, nx, len(record))
		}
		for _, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return 0, 0, nil, fmt.Errorf("%s row %d: %w", valueFile, j, err)
			}
			value = append(value, v)
		}
	}
	return nx, ny, value, nil
}
