package abm

import "errors"

// Domain errors for model operations.
var (
	// ErrUnknownModel indicates a model name with no registered constructor.
	ErrUnknownModel = errors.New("abm: unknown model")

	// ErrNotPlaced indicates an agent that has no position on the grid.
	ErrNotPlaced = errors.New("abm: agent not placed on grid")

	// ErrAlreadyPlaced indicates a second Place call for the same agent.
	ErrAlreadyPlaced = errors.New("abm: agent already placed on grid")

	// ErrEmptyModel indicates an operation that needs at least one agent.
	ErrEmptyModel = errors.New("abm: model has no agents")

	// ErrGridFull indicates no free cell could be found.
	ErrGridFull = errors.New("abm: no empty cell available")
)
