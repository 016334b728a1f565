package models

import (
	"errors"
	"testing"

	"github.com/san-kum/agentlab/internal/abm"
	"github.com/san-kum/agentlab/internal/params"
)

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.List() {
		p, err := r.DefaultParams(name)
		if err != nil {
			t.Fatalf("%s defaults: %v", name, err)
		}
		m, err := r.Build(name, p, 42)
		if err != nil {
			t.Fatalf("%s build: %v", name, err)
		}
		if len(m.Agents()) == 0 {
			t.Errorf("%s built with no agents", name)
		}
		m.Step()
		if m.Steps() != 1 {
			t.Errorf("%s did not step", name)
		}
	}
}

func TestRegistryUnknownModel(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Build("flocking", nil, 1); !errors.Is(err, abm.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
	if _, err := r.DefaultParams("flocking"); !errors.Is(err, abm.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestRegistryDefaultCollector(t *testing.T) {
	r := NewRegistry()

	c, err := r.DefaultCollector("boltzmann")
	if err != nil {
		t.Fatal(err)
	}
	m, err := r.Build("boltzmann", mustParams(t, r, "boltzmann"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Collect(m); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, err := c.Series("gini"); err != nil {
		t.Errorf("expected gini series: %v", err)
	}
	if r.TrackedSeries("boltzmann") != "gini" {
		t.Errorf("unexpected tracked series %q", r.TrackedSeries("boltzmann"))
	}
}

func TestRegistryPortrayal(t *testing.T) {
	r := NewRegistry()
	m := NewBoltzmannWealth(5, 3, 3, 1)

	rule := r.Portrayal("boltzmann")
	p := rule(m.Agents()[0])
	if p.Size != 50 || p.Color != "tab:blue" {
		t.Errorf("fresh agent (wealth 1) should portray large/blue, got %+v", p)
	}
}

func TestRegistryChoice(t *testing.T) {
	r := NewRegistry()

	c := r.Choice("schelling")
	if c.Name != "model" || c.Value != "schelling" {
		t.Errorf("unexpected choice: %+v", c)
	}
	if len(c.Options) != len(r.List()) {
		t.Errorf("choice should offer every registered model, got %v", c.Options)
	}
}

func mustParams(t *testing.T, r *Registry, name string) params.Set {
	t.Helper()
	p, err := r.DefaultParams(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
