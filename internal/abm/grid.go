package abm

import (
	"fmt"
	"math/rand"
)

// Grid is a width x height torus. Any number of agents may share a
// cell. Coordinates outside the bounds wrap around.
type Grid struct {
	width  int
	height int
	cells  [][]Agent
	pos    map[int]Cell
}

func NewGrid(width, height int) *Grid {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("abm: invalid grid %dx%d", width, height))
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([][]Agent, width*height),
		pos:    make(map[int]Cell),
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Wrap maps an arbitrary coordinate onto the torus.
func (g *Grid) Wrap(c Cell) Cell {
	c.X = ((c.X % g.width) + g.width) % g.width
	c.Y = ((c.Y % g.height) + g.height) % g.height
	return c
}

func (g *Grid) index(c Cell) int { return c.Y*g.width + c.X }

// Place puts an agent on the grid for the first time.
func (g *Grid) Place(a Agent, c Cell) error {
	if _, ok := g.pos[a.ID()]; ok {
		return fmt.Errorf("%w: agent %d", ErrAlreadyPlaced, a.ID())
	}
	c = g.Wrap(c)
	i := g.index(c)
	g.cells[i] = append(g.cells[i], a)
	g.pos[a.ID()] = c
	return nil
}

// Move relocates a placed agent.
func (g *Grid) Move(a Agent, c Cell) error {
	old, ok := g.pos[a.ID()]
	if !ok {
		return fmt.Errorf("%w: agent %d", ErrNotPlaced, a.ID())
	}
	c = g.Wrap(c)
	if c == old {
		return nil
	}
	g.removeFromCell(a, old)
	i := g.index(c)
	g.cells[i] = append(g.cells[i], a)
	g.pos[a.ID()] = c
	return nil
}

// Remove takes an agent off the grid.
func (g *Grid) Remove(a Agent) error {
	old, ok := g.pos[a.ID()]
	if !ok {
		return fmt.Errorf("%w: agent %d", ErrNotPlaced, a.ID())
	}
	g.removeFromCell(a, old)
	delete(g.pos, a.ID())
	return nil
}

func (g *Grid) removeFromCell(a Agent, c Cell) {
	i := g.index(c)
	occupants := g.cells[i]
	for j, other := range occupants {
		if other.ID() == a.ID() {
			g.cells[i] = append(occupants[:j], occupants[j+1:]...)
			return
		}
	}
}

// PosOf returns the position of a placed agent.
func (g *Grid) PosOf(id int) (Cell, bool) {
	c, ok := g.pos[id]
	return c, ok
}

// CellAgents returns the occupants of a cell. The returned slice is
// shared with the grid; callers must not mutate it.
func (g *Grid) CellAgents(c Cell) []Agent {
	return g.cells[g.index(g.Wrap(c))]
}

// Neighborhood returns the Moore neighborhood of a cell at the given
// radius. Torus wrapping means the result never runs off an edge, but
// on small grids distinct offsets can wrap to the same cell; duplicates
// are collapsed.
func (g *Grid) Neighborhood(c Cell, radius int, includeCenter bool) []Cell {
	c = g.Wrap(c)
	seen := make(map[Cell]struct{})
	out := make([]Cell, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 && !includeCenter {
				continue
			}
			n := g.Wrap(Cell{c.X + dx, c.Y + dy})
			if n == c && !includeCenter {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// RandomCell picks a uniformly random cell.
func (g *Grid) RandomCell(rng *rand.Rand) Cell {
	return Cell{rng.Intn(g.width), rng.Intn(g.height)}
}

// RandomEmptyCell picks a uniformly random unoccupied cell.
func (g *Grid) RandomEmptyCell(rng *rand.Rand) (Cell, error) {
	empty := make([]Cell, 0)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := Cell{x, y}
			if len(g.cells[g.index(c)]) == 0 {
				empty = append(empty, c)
			}
		}
	}
	if len(empty) == 0 {
		return Cell{}, ErrGridFull
	}
	return empty[rng.Intn(len(empty))], nil
}

// Occupied reports whether any agent is in the cell.
func (g *Grid) Occupied(c Cell) bool {
	return len(g.cells[g.index(g.Wrap(c))]) > 0
}
