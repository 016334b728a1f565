package server

import (
	"errors"
	"testing"

	"github.com/san-kum/agentlab/internal/models"
	"github.com/san-kum/agentlab/internal/params"
)

func newTestRunner(t *testing.T) (*Runner, *Hub) {
	t.Helper()
	reg := models.NewRegistry()
	p, err := reg.DefaultParams("boltzmann")
	if err != nil {
		t.Fatalf("default params: %v", err)
	}
	hub := NewHub()
	t.Cleanup(hub.Close)
	r, err := NewRunner(reg, "boltzmann", p, 11, 30, hub)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return r, hub
}

func TestRunnerStartsPaused(t *testing.T) {
	r, _ := newTestRunner(t)
	if f := r.Frame(); f.Running {
		t.Error("runner should start paused")
	}
}

func TestStepOnce(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Play()
	r.StepOnce()
	f := r.Frame()
	if f.Running {
		t.Error("StepOnce should pause the runner")
	}
	if f.Step != 1 {
		t.Errorf("expected step 1, got %d", f.Step)
	}
}

func TestResetReplays(t *testing.T) {
	r, _ := newTestRunner(t)
	r.StepOnce()
	r.StepOnce()
	if err := r.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	f := r.Frame()
	if f.Step != 0 {
		t.Errorf("expected step 0 after reset, got %d", f.Step)
	}
	if len(f.Series) != 1 {
		t.Errorf("reset should restart the series, got %d samples", len(f.Series))
	}
}

func TestApplyParamsRebuilds(t *testing.T) {
	r, _ := newTestRunner(t)
	r.StepOnce()
	if err := r.ApplyParams(map[string]float64{"n": 80}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	f := r.Frame()
	if f.Step != 0 {
		t.Errorf("parameter change should rebuild from step 0, got %d", f.Step)
	}
	if len(f.Markers) != 80 {
		t.Errorf("expected 80 markers, got %d", len(f.Markers))
	}
}

func TestApplyParamsClamps(t *testing.T) {
	r, _ := newTestRunner(t)
	if err := r.ApplyParams(map[string]float64{"n": 1e6}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(r.Frame().Markers) != 100 {
		t.Errorf("expected clamp to slider max 100, got %d", len(r.Frame().Markers))
	}
}

func TestApplyParamsAllOrNothing(t *testing.T) {
	r, _ := newTestRunner(t)
	err := r.ApplyParams(map[string]float64{"n": 80, "gravity": 1})
	if !errors.Is(err, params.ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
	n, err := r.Params().Get("n")
	if err != nil {
		t.Fatalf("get n: %v", err)
	}
	if n != 50 {
		t.Errorf("rejected payload must not change sliders, n=%v", n)
	}
	if got := len(r.Frame().Markers); got != 50 {
		t.Errorf("rejected payload must not rebuild the model, got %d markers", got)
	}
}

func TestApplyParamsUnknown(t *testing.T) {
	r, _ := newTestRunner(t)
	err := r.ApplyParams(map[string]float64{"gravity": 9.8})
	if !errors.Is(err, params.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestFrameMarkers(t *testing.T) {
	r, _ := newTestRunner(t)
	f := r.Frame()
	if f.GridWidth != 10 || f.GridHeight != 10 {
		t.Errorf("expected 10x10 grid, got %dx%d", f.GridWidth, f.GridHeight)
	}
	if len(f.Markers) != 50 {
		t.Fatalf("expected 50 markers, got %d", len(f.Markers))
	}
	total := 0
	for _, c := range f.Histogram.Counts {
		total += c
	}
	if total != 50 {
		t.Errorf("histogram should count every agent, got %d", total)
	}
	for _, m := range f.Markers {
		if m.X < 0 || m.X >= f.GridWidth || m.Y < 0 || m.Y >= f.GridHeight {
			t.Errorf("marker out of grid: (%d, %d)", m.X, m.Y)
		}
		if m.Color != "tab:blue" {
			t.Errorf("fresh agents all hold wealth, expected tab:blue, got %q", m.Color)
		}
	}
}
