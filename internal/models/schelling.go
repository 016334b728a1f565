package models

import (
	"math/rand"

	"github.com/san-kum/agentlab/internal/abm"
)

// SchellingAgent belongs to one of two groups and wants a minimum
// fraction of like neighbors.
type SchellingAgent struct {
	id    int
	group int
	grid  *abm.Grid
}

func (a *SchellingAgent) ID() int    { return a.id }
func (a *SchellingAgent) Group() int { return a.group }

func (a *SchellingAgent) Pos() abm.Cell {
	c, _ := a.grid.PosOf(a.id)
	return c
}

// Schelling is the segregation model: each cell holds at most one
// agent, unhappy agents relocate to random empty cells, and the model
// converges once everyone is happy.
type Schelling struct {
	width      int
	height     int
	density    float64
	minorityPC float64
	homophily  float64
	radius     int
	seed       int64

	rng    *rand.Rand
	grid   *abm.Grid
	agents []*SchellingAgent
	steps  int
	happy  int
}

func NewSchelling(width, height int, density, minorityPC, homophily float64, radius int, seed int64) *Schelling {
	m := &Schelling{
		width:      width,
		height:     height,
		density:    density,
		minorityPC: minorityPC,
		homophily:  homophily,
		radius:     radius,
		seed:       seed,
	}
	m.Reset()
	return m
}

func (m *Schelling) Reset() {
	m.rng = rand.New(rand.NewSource(m.seed))
	m.grid = abm.NewGrid(m.width, m.height)
	m.agents = m.agents[:0]
	id := 0
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.rng.Float64() >= m.density {
				continue
			}
			group := 0
			if m.rng.Float64() < m.minorityPC {
				group = 1
			}
			a := &SchellingAgent{id: id, group: group, grid: m.grid}
			_ = m.grid.Place(a, abm.Cell{X: x, Y: y})
			m.agents = append(m.agents, a)
			id++
		}
	}
	m.steps = 0
	m.countHappy()
}

// isHappy reports whether the fraction of like agents in the Moore
// neighborhood meets the homophily threshold. Isolated agents are
// happy.
func (m *Schelling) isHappy(a *SchellingAgent) bool {
	similar, total := 0, 0
	for _, c := range m.grid.Neighborhood(a.Pos(), m.radius, false) {
		for _, other := range m.grid.CellAgents(c) {
			total++
			if other.(*SchellingAgent).group == a.group {
				similar++
			}
		}
	}
	if total == 0 {
		return true
	}
	return float64(similar)/float64(total) >= m.homophily
}

func (m *Schelling) countHappy() {
	m.happy = 0
	for _, a := range m.agents {
		if m.isHappy(a) {
			m.happy++
		}
	}
}

// Step relocates every unhappy agent (shuffled order) to a random
// empty cell, then recounts happiness.
func (m *Schelling) Step() {
	for _, i := range m.rng.Perm(len(m.agents)) {
		a := m.agents[i]
		if m.isHappy(a) {
			continue
		}
		dest, err := m.grid.RandomEmptyCell(m.rng)
		if err != nil {
			continue
		}
		_ = m.grid.Move(a, dest)
	}
	m.countHappy()
	m.steps++
}

func (m *Schelling) Steps() int      { return m.steps }
func (m *Schelling) Grid() *abm.Grid { return m.grid }
func (m *Schelling) Seed() int64     { return m.seed }
func (m *Schelling) Happy() int      { return m.happy }

func (m *Schelling) Converged() bool { return m.happy == len(m.agents) }

func (m *Schelling) Agents() []abm.Agent {
	out := make([]abm.Agent, len(m.agents))
	for i, a := range m.agents {
		out[i] = a
	}
	return out
}
