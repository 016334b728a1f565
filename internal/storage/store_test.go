package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/agentlab/internal/collect"
	"github.com/san-kum/agentlab/internal/models"
)

func savedRun(t *testing.T, dir string, steps int) (*Store, string) {
	t.Helper()

	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	r := models.NewRegistry()
	p, err := r.DefaultParams("boltzmann")
	if err != nil {
		t.Fatal(err)
	}
	m, err := r.Build("boltzmann", p, 42)
	if err != nil {
		t.Fatal(err)
	}
	c, err := r.DefaultCollector("boltzmann")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < steps; i++ {
		if err := c.Collect(m); err != nil {
			t.Fatal(err)
		}
		m.Step()
	}

	runID, err := st.Save("boltzmann", 42, steps, p.Values(), c)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return st, runID
}

func TestSaveLoad(t *testing.T) {
	st, runID := savedRun(t, t.TempDir(), 5)

	if !strings.HasPrefix(runID, "boltzmann_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Model != "boltzmann" || meta.Seed != 42 || meta.Steps != 5 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if _, ok := meta.Metrics["gini"]; !ok {
		t.Error("expected gini in final metrics")
	}
	if meta.Params["n"] != 50 {
		t.Errorf("expected n=50 in params, got %v", meta.Params)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	st, _ := savedRun(t, dir, 3)
	if _, err := st.Save("boltzmann", 7, 0, nil, mustCollector(t)); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListEmptyDir(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadSeries(t *testing.T) {
	st, runID := savedRun(t, t.TempDir(), 8)

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	gini, ok := series["gini"]
	if !ok {
		t.Fatalf("expected gini series, have %v", series)
	}
	if len(gini) != 8 {
		t.Errorf("expected 8 samples, got %d", len(gini))
	}
}

func TestLoadAgentValues(t *testing.T) {
	st, runID := savedRun(t, t.TempDir(), 4)

	last, err := st.LastStep(runID)
	if err != nil {
		t.Fatal(err)
	}
	if last != 3 {
		t.Errorf("expected last step 3, got %d", last)
	}

	wealth, err := st.LoadAgentValues(runID, "wealth", last)
	if err != nil {
		t.Fatal(err)
	}
	if len(wealth) != 50 {
		t.Errorf("expected 50 agent values, got %d", len(wealth))
	}

	total := 0.0
	for _, w := range wealth {
		total += w
	}
	if total != 50 {
		t.Errorf("expected conserved wealth 50, got %f", total)
	}

	if _, err := st.LoadAgentValues(runID, "nope", 0); err == nil {
		t.Error("expected error for unknown reporter")
	}
}

func TestLoadAgentValuesShortRow(t *testing.T) {
	dir := t.TempDir()
	st, runID := savedRun(t, dir, 2)

	f, err := os.OpenFile(filepath.Join(dir, runID, "agents.csv"), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("999\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	values, err := st.LoadAgentValues(runID, "wealth", 999)
	if err != nil {
		t.Fatalf("short rows should be skipped, got %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected no values from the truncated row, got %d", len(values))
	}
}

func TestExport(t *testing.T) {
	st, runID := savedRun(t, t.TempDir(), 6)

	var buf bytes.Buffer
	if err := st.Export(runID, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if data.ID != runID || len(data.Series["gini"]) != 6 {
		t.Errorf("unexpected export: id=%s series=%d", data.ID, len(data.Series["gini"]))
	}
}

func mustCollector(t *testing.T) *collect.Collector {
	t.Helper()
	r := models.NewRegistry()
	c, err := r.DefaultCollector("boltzmann")
	if err != nil {
		t.Fatal(err)
	}
	return c
}
