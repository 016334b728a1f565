package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID      string               `json:"id"`
	Model   string               `json:"model"`
	Seed    int64                `json:"seed"`
	Steps   int                  `json:"steps"`
	Params  map[string]float64   `json:"params"`
	Metrics map[string]float64   `json:"metrics"`
	Series  map[string][]float64 `json:"series"`
}

// Export writes a saved run's metadata and model series as one JSON
// document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:      meta.ID,
		Model:   meta.Model,
		Seed:    meta.Seed,
		Steps:   meta.Steps,
		Params:  meta.Params,
		Metrics: meta.Metrics,
		Series:  series,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportFile writes the JSON export to a path.
func (s *Store) ExportFile(runID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Export(runID, f)
}
