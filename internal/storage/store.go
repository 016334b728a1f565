package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/agentlab/internal/collect"
)

// Store persists finished runs as one directory per run:
// metadata.json, model_vars.csv, and agents.csv.
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
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(model string, seed int64, steps int, paramValues map[string]float64, c *collect.Collector) (string, error) {
	runID := fmt.Sprintf("%s_%s", model, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Model:     model,
		Timestamp: time.Now(),
		Seed:      seed,
		Steps:     steps,
		Params:    paramValues,
		Metrics:   c.Latest(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, "model_vars.csv"), c.ModelVarsRows()); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, "agents.csv"), c.AgentRows()); err != nil {
		return "", err
	}

	return runID, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads model_vars.csv back as named columns. The "step"
// column is dropped; rows are assumed consecutive from step 0.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "model_vars.csv"))
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return map[string][]float64{}, nil
	}

	header := records[0]
	series := make(map[string][]float64)
	for i := 1; i < len(records); i++ {
		for j, cell := range records[i] {
			if j == 0 || j >= len(header) {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			series[header[j]] = append(series[header[j]], v)
		}
	}
	return series, nil
}

// LoadAgentValues reads one agent reporter's values at a single step.
func (s *Store) LoadAgentValues(runID, name string, step int) ([]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "agents.csv"))
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("run %s has no agent data", runID)
	}

	col := -1
	for j, h := range records[0] {
		if h == name {
			col = j
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("run %s has no agent reporter %q", runID, name)
	}

	values := make([]float64, 0)
	for i := 1; i < len(records); i++ {
		// short rows can appear in hand-edited files; skip them
		if col >= len(records[i]) {
			continue
		}
		st, err := strconv.Atoi(records[i][0])
		if err != nil || st != step {
			continue
		}
		v, err := strconv.ParseFloat(records[i][col], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

// LastStep reports the highest step recorded in agents.csv.
func (s *Store) LastStep(runID string) (int, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "agents.csv"))
	if err != nil {
		return 0, err
	}
	last := 0
	for i := 1; i < len(records); i++ {
		if st, err := strconv.Atoi(records[i][0]); err == nil && st > last {
			last = st
		}
	}
	return last, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
