package abm

// Cell is a grid coordinate.
type Cell struct {
	X int
	Y int
}

// Agent is an entity living on a model's grid.
type Agent interface {
	ID() int
	Pos() Cell
}

// Model is a discrete-time agent simulation.
type Model interface {
	// Step advances the model by one tick, activating every agent once.
	Step()
	// Steps reports how many ticks have run since construction or Reset.
	Steps() int
	Agents() []Agent
	Grid() *Grid
	Seed() int64
	// Reset restores the initial population and reseeds the rng, so a
	// reset model replays the same trajectory.
	Reset()
}

// Converger is implemented by models that can reach a terminal state
// before the caller's step budget runs out.
type Converger interface {
	Converged() bool
}
