// Package abm provides core primitives for agent-based models.
//
// The package defines the fundamental interfaces and types for
// discrete-time agent simulations:
//
//   - [Agent]: an entity with an identity and a grid position
//   - [Model]: a stepped population of agents on a [Grid]
//   - [Grid]: a torus grid holding any number of agents per cell
//
// # Example
//
//	m := models.NewBoltzmannWealth(100, 10, 10, seed)
//	for i := 0; i < 125; i++ {
//		m.Step()
//	}
//
// # Thread Safety
//
// Model instances are NOT thread-safe. Callers that step a model from
// one goroutine and read it from another must serialize access
// themselves; see the server package's runner for an example.
package abm
