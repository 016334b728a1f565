package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/agentlab/internal/models"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	reg := models.NewRegistry()
	p, err := reg.DefaultParams("boltzmann")
	if err != nil {
		t.Fatalf("default params: %v", err)
	}
	m, err := NewModel(reg, "boltzmann", p, 7, 30)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func TestNewModelUnknown(t *testing.T) {
	reg := models.NewRegistry()
	if _, err := NewModel(reg, "nope", nil, 1, 30); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestStepAdvancesAndCollects(t *testing.T) {
	m := newTestModel(t)
	m.step()
	m.step()
	if got := m.sim.Steps(); got != 2 {
		t.Errorf("expected 2 steps, got %d", got)
	}
	series, err := m.collector.Series("gini")
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != 3 {
		t.Errorf("expected 3 samples (initial plus two steps), got %d", len(series))
	}
}

func TestAdjustSliderRebuilds(t *testing.T) {
	m := newTestModel(t)
	m.step()

	before, err := m.sliders.Get("n")
	if err != nil {
		t.Fatalf("get n: %v", err)
	}
	m.adjustSlider(1)
	after, err := m.sliders.Get("n")
	if err != nil {
		t.Fatalf("get n: %v", err)
	}
	if after != before+1 {
		t.Errorf("expected n to step from %v to %v, got %v", before, before+1, after)
	}
	if m.sim.Steps() != 0 {
		t.Error("adjusting a slider should rebuild the model from step 0")
	}
	if got := len(m.sim.Agents()); got != int(after) {
		t.Errorf("rebuilt model should have %d agents, got %d", int(after), got)
	}
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t)
	m.step()
	out := m.View()
	if !strings.Contains(out, "BOLTZMANN") {
		t.Error("view should include the model name header")
	}
	if !strings.Contains(out, "RUNNING") {
		t.Error("view should report run status")
	}
	if !strings.Contains(out, "n") {
		t.Error("view should list sliders")
	}
}
