package models

import (
	"math/rand"

	"github.com/san-kum/agentlab/internal/abm"
)

// WealthAgent holds a unit-exchangeable wealth balance.
type WealthAgent struct {
	id     int
	wealth float64
	grid   *abm.Grid
}

func (a *WealthAgent) ID() int { return a.id }

func (a *WealthAgent) Pos() abm.Cell {
	c, _ := a.grid.PosOf(a.id)
	return c
}

func (a *WealthAgent) Wealth() float64 { return a.wealth }

// BoltzmannWealth is the classic money-exchange model: every agent
// starts with one unit of wealth, wanders the torus, and hands a unit
// to a random cell-mate whenever it has any to give. Total wealth is
// conserved; inequality (Gini) rises over time.
type BoltzmannWealth struct {
	n      int
	width  int
	height int
	seed   int64

	rng    *rand.Rand
	grid   *abm.Grid
	agents []*WealthAgent
	steps  int
}

func NewBoltzmannWealth(n, width, height int, seed int64) *BoltzmannWealth {
	m := &BoltzmannWealth{n: n, width: width, height: height, seed: seed}
	m.Reset()
	return m
}

func (m *BoltzmannWealth) Reset() {
	m.rng = rand.New(rand.NewSource(m.seed))
	m.grid = abm.NewGrid(m.width, m.height)
	m.agents = make([]*WealthAgent, m.n)
	for i := 0; i < m.n; i++ {
		a := &WealthAgent{id: i, wealth: 1, grid: m.grid}
		m.agents[i] = a
		// placement errors cannot happen here: ids are unique
		_ = m.grid.Place(a, m.grid.RandomCell(m.rng))
	}
	m.steps = 0
}

// Step activates every agent once in shuffled order. Each agent moves
// to a random Moore neighbor, then gives one unit to a random agent
// sharing its cell.
func (m *BoltzmannWealth) Step() {
	for _, i := range m.rng.Perm(len(m.agents)) {
		a := m.agents[i]

		hood := m.grid.Neighborhood(a.Pos(), 1, false)
		_ = m.grid.Move(a, hood[m.rng.Intn(len(hood))])

		if a.wealth <= 0 {
			continue
		}
		mates := m.grid.CellAgents(a.Pos())
		others := make([]*WealthAgent, 0, len(mates))
		for _, mate := range mates {
			if mate.ID() != a.id {
				others = append(others, mate.(*WealthAgent))
			}
		}
		if len(others) == 0 {
			continue
		}
		other := others[m.rng.Intn(len(others))]
		other.wealth++
		a.wealth--
	}
	m.steps++
}

func (m *BoltzmannWealth) Steps() int      { return m.steps }
func (m *BoltzmannWealth) Grid() *abm.Grid { return m.grid }
func (m *BoltzmannWealth) Seed() int64     { return m.seed }

func (m *BoltzmannWealth) Agents() []abm.Agent {
	out := make([]abm.Agent, len(m.agents))
	for i, a := range m.agents {
		out[i] = a
	}
	return out
}
