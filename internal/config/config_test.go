package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/agentlab/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "boltzmann" {
		t.Errorf("expected model boltzmann, got %s", cfg.Model)
	}
	if cfg.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if cfg.Boltzmann.N != DefaultN {
		t.Errorf("expected %d agents, got %d", DefaultN, cfg.Boltzmann.N)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.yaml")

	cfg := DefaultConfig()
	cfg.Model = "schelling"
	cfg.Seed = 42
	cfg.Schelling.Homophily = 0.7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model != "schelling" || loaded.Seed != 42 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Schelling.Homophily != 0.7 {
		t.Errorf("expected homophily 0.7, got %f", loaded.Schelling.Homophily)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyTo(t *testing.T) {
	r := models.NewRegistry()
	p, err := r.DefaultParams("boltzmann")
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Boltzmann.N = 80
	cfg.ApplyTo(p)

	n, _ := p.Int("n")
	if n != 80 {
		t.Errorf("expected n 80, got %d", n)
	}

	// config values are trusted and may exceed the slider range
	cfg.Boltzmann.N = 10000
	cfg.ApplyTo(p)
	n, _ = p.Int("n")
	if n != 10000 {
		t.Errorf("expected 10000, got %d", n)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("boltzmann", "small")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Config.Boltzmann.N != 100 || p.Config.Steps != 125 {
		t.Errorf("unexpected preset values: %+v", p.Config)
	}
	if p.Replications != 5 {
		t.Errorf("expected 5 replications, got %d", p.Replications)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("boltzmann", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "small") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets("boltzmann")) == 0 {
		t.Error("expected presets for boltzmann")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}
