package models

import "testing"

func TestSchellingSingleOccupancy(t *testing.T) {
	m := NewSchelling(20, 20, 0.6, 0.5, 0.4, 1, 11)

	check := func() {
		for _, a := range m.Agents() {
			if n := len(m.Grid().CellAgents(a.Pos())); n != 1 {
				t.Fatalf("cell %v holds %d agents", a.Pos(), n)
			}
		}
	}
	check()
	for i := 0; i < 20; i++ {
		m.Step()
	}
	check()
}

func TestSchellingHappyBounds(t *testing.T) {
	m := NewSchelling(25, 25, 0.625, 0.5, 0.4, 1, 3)

	for i := 0; i < 40; i++ {
		m.Step()
		if m.Happy() < 0 || m.Happy() > len(m.Agents()) {
			t.Fatalf("happy count %d out of range (agents %d)", m.Happy(), len(m.Agents()))
		}
	}
}

func TestSchellingZeroHomophilyConverges(t *testing.T) {
	// with homophily 0 every agent is happy immediately
	m := NewSchelling(15, 15, 0.5, 0.5, 0, 1, 7)
	if !m.Converged() {
		t.Error("expected convergence with zero homophily")
	}
	if m.Happy() != len(m.Agents()) {
		t.Errorf("expected all %d agents happy, got %d", len(m.Agents()), m.Happy())
	}
}

func TestSchellingDeterminism(t *testing.T) {
	a := NewSchelling(20, 20, 0.6, 0.5, 0.4, 1, 77)
	b := NewSchelling(20, 20, 0.6, 0.5, 0.4, 1, 77)

	if len(a.Agents()) != len(b.Agents()) {
		t.Fatalf("population differs: %d vs %d", len(a.Agents()), len(b.Agents()))
	}
	for i := 0; i < 15; i++ {
		a.Step()
		b.Step()
	}
	if a.Happy() != b.Happy() {
		t.Errorf("same seed diverged: %d vs %d happy", a.Happy(), b.Happy())
	}
}
