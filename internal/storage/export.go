package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/wave2d/internal/sim"
)

type ExportData struct {
	Meta    *RunMetadata `json:"meta"`
	Samples []sim.Sample `json:"samples"`
	Value   [][]float64  `json:"value,omitempty"`
}

// ExportJSON writes metadata, samples and optionally the final grid as
// one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string, withValue bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := ExportData{Meta: meta, Samples: samples}
	if withValue {
		nx, ny, value, err := s.LoadValue(runID)
		if err != nil {
			return err
		}
		data.Value = make([][]float64, ny)
		for j := 0; j < ny; j++ {
			data.Value[j] = value[j*nx : (j+1)*nx]
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (s *Store) ExportJSONStdout(runID string, withValue bool) error {
	return s.ExportJSON(os.Stdout, runID, withValue)
}
