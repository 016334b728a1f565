package models

import (
	"fmt"

	"github.com/san-kum/agentlab/internal/abm"
	"github.com/san-kum/agentlab/internal/collect"
	"github.com/san-kum/agentlab/internal/params"
	"github.com/san-kum/agentlab/internal/portray"
	"github.com/san-kum/agentlab/internal/stats"
)

// Builder constructs a model from a parameter set and a seed.
type Builder func(p params.Set, seed int64) (abm.Model, error)

type entry struct {
	build     Builder
	defaults  params.Set
	reporters func() map[string]collect.ModelReporter
	agentReps func() map[string]collect.AgentReporter
	series    string
}

type Registry struct {
	entries map[string]entry
	names   []string
}

func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]entry)}

	r.register("boltzmann", entry{
		build: buildBoltzmann,
		defaults: params.Set{
			{Name: "n", Label: "Number of agents", Value: 50, Min: 10, Max: 100, Step: 1},
			{Name: "width", Label: "Grid width", Value: 10, Min: 5, Max: 50, Step: 1},
			{Name: "height", Label: "Grid height", Value: 10, Min: 5, Max: 50, Step: 1},
		},
		reporters: func() map[string]collect.ModelReporter {
			return map[string]collect.ModelReporter{
				"gini": func(m abm.Model) float64 { return stats.Gini(portray.Wealths(m)) },
			}
		},
		agentReps: func() map[string]collect.AgentReporter {
			return map[string]collect.AgentReporter{
				"wealth": func(a abm.Agent) float64 {
					if w, ok := a.(portray.WealthHolder); ok {
						return w.Wealth()
					}
					return 0
				},
			}
		},
		series: "gini",
	})

	r.register("schelling", entry{
		build: buildSchelling,
		defaults: params.Set{
			{Name: "width", Label: "Grid width", Value: 40, Min: 10, Max: 100, Step: 5},
			{Name: "height", Label: "Grid height", Value: 40, Min: 10, Max: 100, Step: 5},
			{Name: "density", Label: "Density", Value: 0.625, Min: 0.1, Max: 0.9, Step: 0.025},
			{Name: "minority_pc", Label: "Minority fraction", Value: 0.5, Min: 0, Max: 1, Step: 0.05},
			{Name: "homophily", Label: "Homophily", Value: 0.4, Min: 0, Max: 1, Step: 0.05},
			{Name: "radius", Label: "Vision radius", Value: 1, Min: 1, Max: 5, Step: 1},
		},
		reporters: func() map[string]collect.ModelReporter {
			return map[string]collect.ModelReporter{
				"happy": func(m abm.Model) float64 {
					if s, ok := m.(*Schelling); ok {
						return float64(s.Happy())
					}
					return 0
				},
			}
		},
		agentReps: func() map[string]collect.AgentReporter {
			return map[string]collect.AgentReporter{
				"group": func(a abm.Agent) float64 {
					if s, ok := a.(*SchellingAgent); ok {
						return float64(s.Group())
					}
					return 0
				},
			}
		},
		series: "happy",
	})

	return r
}

func (r *Registry) register(name string, e entry) {
	r.entries[name] = e
	r.names = append(r.names, name)
}

// Build constructs a named model.
func (r *Registry) Build(name string, p params.Set, seed int64) (abm.Model, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", abm.ErrUnknownModel, name)
	}
	return e.build(p, seed)
}

// DefaultParams returns a fresh copy of a model's parameter spec.
func (r *Registry) DefaultParams(name string) (params.Set, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", abm.ErrUnknownModel, name)
	}
	return e.defaults.Clone(), nil
}

// DefaultCollector builds a collector wired with the model's standard
// reporters.
func (r *Registry) DefaultCollector(name string) (*collect.Collector, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", abm.ErrUnknownModel, name)
	}
	c := collect.New()
	for n, rep := range e.reporters() {
		c.AddModelReporter(n, rep)
	}
	for n, rep := range e.agentReps() {
		c.AddAgentReporter(n, rep)
	}
	return c, nil
}

// TrackedSeries names the model series the live views plot.
func (r *Registry) TrackedSeries(name string) string {
	if e, ok := r.entries[name]; ok {
		return e.series
	}
	return ""
}

// Portrayal returns the drawing rule for a named model.
func (r *Registry) Portrayal(name string) portray.Func {
	switch name {
	case "schelling":
		return func(a abm.Agent) portray.Portrayal {
			if s, ok := a.(*SchellingAgent); ok && s.Group() == 1 {
				return portray.Portrayal{Size: 30, Color: "tab:orange"}
			}
			return portray.Portrayal{Size: 30, Color: "tab:blue"}
		}
	default:
		return portray.ByWealth
	}
}

// Choice describes the model selector the frontends render, with the
// currently driven model as its value.
func (r *Registry) Choice(current string) params.Choice {
	return params.Choice{
		Name:    "model",
		Label:   "Model",
		Value:   current,
		Options: r.List(),
	}
}

// List returns registered model names in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func buildBoltzmann(p params.Set, seed int64) (abm.Model, error) {
	n, err := p.Int("n")
	if err != nil {
		return nil, err
	}
	width, err := p.Int("width")
	if err != nil {
		return nil, err
	}
	height, err := p.Int("height")
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, abm.ErrEmptyModel
	}
	return NewBoltzmannWealth(n, width, height, seed), nil
}

func buildSchelling(p params.Set, seed int64) (abm.Model, error) {
	width, err := p.Int("width")
	if err != nil {
		return nil, err
	}
	height, err := p.Int("height")
	if err != nil {
		return nil, err
	}
	density, err := p.Get("density")
	if err != nil {
		return nil, err
	}
	minorityPC, err := p.Get("minority_pc")
	if err != nil {
		return nil, err
	}
	homophily, err := p.Get("homophily")
	if err != nil {
		return nil, err
	}
	radius, err := p.Int("radius")
	if err != nil {
		return nil, err
	}
	return NewSchelling(width, height, density, minorityPC, homophily, radius, seed), nil
}
