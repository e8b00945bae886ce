package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/wave2d/internal/config"
	"github.com/san-kum/wave2d/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Nx: 3,
		Ny: 2,
		Samples: []sim.Sample{
			{Tick: 0, Time: 0, Energy: 1.5, MaxAbs: 1, Probe: 0.25},
			{Tick: 1, Time: 0.01, Energy: 1.5000001, MaxAbs: 0.99, Probe: 0.2},
		},
		Metrics:    map[string]float64{"energy": 1.5},
		TicksTaken: 1,
		Final:      []float64{0, 0.1, 0.2, 1, 1.1, 1.2},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.GetPreset("reference")
	runID, err := st.Save(cfg, testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "reference" || meta.Seed != "sines" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}
	if meta.CFL <= 0 || meta.CFL >= 1 {
		t.Errorf("expected stable CFL number, got %f", meta.CFL)
	}
	if meta.Error != "" {
		t.Errorf("unexpected error field %q", meta.Error)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 || samples[1] != testResult().Samples[1] {
		t.Errorf("samples did not round trip: %+v", samples)
	}

	nx, ny, value, err := st.LoadValue(runID)
	if err != nil {
		t.Fatalf("load value failed: %v", err)
	}
	if nx != 3 || ny != 2 {
		t.Errorf("expected 3x2, got %dx%d", nx, ny)
	}
	for i, v := range testResult().Final {
		if value[i] != v {
			t.Errorf("value[%d] = %f, expected %f", i, value[i], v)
		}
	}
}

func TestStoreRecordsRunError(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(config.DefaultConfig(), testResult(), errors.New("boom"))
	if err != nil {
		t.Fatal(err)
	}
	meta, _ := st.Load(runID)
	if meta.Error != "boom" {
		t.Errorf("expected error recorded, got %q", meta.Error)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save(config.DefaultConfig(), testResult(), nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(config.DefaultConfig(), testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, samplesFile, valueFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(config.DefaultConfig(), testResult(), nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID, true); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Meta.ID != runID || len(data.Samples) != 2 || len(data.Value) != 2 || len(data.Value[0]) != 3 {
		t.Errorf("unexpected export: %+v", data)
	}
}
