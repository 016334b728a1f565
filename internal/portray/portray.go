// Package portray maps agents to drawing descriptors.
//
// A portrayal is recomputed for every agent on every frame; rules must
// be pure functions of the agent's current state.
package portray

import "github.com/san-kum/agentlab/internal/abm"

// Portrayal tells a renderer how to draw one agent.
type Portrayal struct {
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// Func derives a portrayal from an agent.
type Func func(a abm.Agent) Portrayal

// WealthHolder is the capability the wealth-based rules need.
type WealthHolder interface {
	Wealth() float64
}

// Matplotlib-style color tokens, so exported frames plot with the
// usual palette downstream.
const (
	ColorRich = "tab:blue"
	ColorPoor = "tab:red"
)

const (
	SizeRich = 50
	SizePoor = 10
)

// ByWealth draws agents with positive wealth as large blue markers and
// broke agents as small red ones. Agents that do not expose wealth get
// the broke portrayal.
func ByWealth(a abm.Agent) Portrayal {
	if w, ok := a.(WealthHolder); ok && w.Wealth() > 0 {
		return Portrayal{Size: SizeRich, Color: ColorRich}
	}
	return Portrayal{Size: SizePoor, Color: ColorPoor}
}

// Wealths extracts every agent's wealth, one entry per agent in
// iteration order. Agents without wealth contribute 0.
func Wealths(m abm.Model) []float64 {
	agents := m.Agents()
	out := make([]float64, len(agents))
	for i, a := range agents {
		if w, ok := a.(WealthHolder); ok {
			out[i] = w.Wealth()
		}
	}
	return out
}
