package server

import (
	"sync"
	"time"

	"github.com/san-kum/agentlab/internal/abm"
	"github.com/san-kum/agentlab/internal/collect"
	"github.com/san-kum/agentlab/internal/models"
	"github.com/san-kum/agentlab/internal/params"
	"github.com/san-kum/agentlab/internal/portray"
	"github.com/san-kum/agentlab/internal/stats"
)

const (
	seriesTail    = 200
	histogramBins = 10
)

// Marker is one agent's drawing instruction in a frame.
type Marker struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// Frame is a full redraw of the model state at one step.
type Frame struct {
	Model      string    `json:"model"`
	Step       int       `json:"step"`
	Running    bool      `json:"running"`
	GridWidth  int       `json:"grid_width"`
	GridHeight int       `json:"grid_height"`
	SeriesName string    `json:"series_name"`
	Series     []float64 `json:"series"`
	Histogram  HistData  `json:"histogram"`
	Markers    []Marker  `json:"markers"`
}

// HistData is the wealth distribution at the frame's step.
type HistData struct {
	Counts []int     `json:"counts"`
	Edges  []float64 `json:"edges"`
}

// Runner owns the simulation behind the HTTP surface. All access to
// the model goes through its mutex; the tick loop and the gin handlers
// both mutate it.
type Runner struct {
	mu         sync.Mutex
	registry   *models.Registry
	modelName  string
	sim        abm.Model
	collector  *collect.Collector
	sliders    params.Set
	portrayal  portray.Func
	seriesName string
	hub        *Hub
	seed       int64
	fps        int
	running    bool
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewRunner builds a paused runner for a registered model.
func NewRunner(reg *models.Registry, name string, p params.Set, seed int64, fps int, hub *Hub) (*Runner, error) {
	if fps < 1 {
		fps = 1
	}
	r := &Runner{
		registry:   reg,
		modelName:  name,
		sliders:    p,
		portrayal:  reg.Portrayal(name),
		seriesName: reg.TrackedSeries(name),
		hub:        hub,
		seed:       seed,
		fps:        fps,
		stop:       make(chan struct{}),
	}
	if err := r.rebuildLocked(); err != nil {
		return nil, err
	}
	return r, nil
}

// Start launches the tick loop. The loop broadcasts a frame every tick
// whether or not the model is advancing, so late joiners see state.
func (r *Runner) Start() {
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(r.fps))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.mu.Lock()
				if r.running {
					r.stepLocked()
				}
				frame := r.frameLocked()
				r.mu.Unlock()
				r.hub.Broadcast(EventFrame, frame)
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the tick loop.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Runner) Play() {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()
	r.hub.Broadcast(EventStatus, map[string]bool{"running": true})
}

func (r *Runner) Pause() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	r.hub.Broadcast(EventStatus, map[string]bool{"running": false})
}

// StepOnce pauses the runner and advances a single step.
func (r *Runner) StepOnce() {
	r.mu.Lock()
	r.running = false
	r.stepLocked()
	frame := r.frameLocked()
	r.mu.Unlock()
	r.hub.Broadcast(EventFrame, frame)
}

// Reset replays the model from its initial population.
func (r *Runner) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sim.Reset()
	return r.resetCollectorLocked()
}

// ApplyParams clamps each value into its slider's range and rebuilds
// the model, since sliders describe construction inputs. The payload
// is all-or-nothing: if any name is unknown or the rebuild fails,
// neither the sliders nor the model change.
func (r *Runner) ApplyParams(values map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.sliders.Clone()
	for name, v := range values {
		if err := next.Apply(name, v); err != nil {
			return err
		}
	}
	sim, err := r.registry.Build(r.modelName, next, r.seed)
	if err != nil {
		return err
	}
	r.sliders = next
	r.sim = sim
	return r.resetCollectorLocked()
}

// ModelName returns the name the runner was built with.
func (r *Runner) ModelName() string { return r.modelName }

// Params returns a copy of the current slider spec.
func (r *Runner) Params() params.Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sliders.Clone()
}

// Frame snapshots the current state for a single redraw.
func (r *Runner) Frame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameLocked()
}

func (r *Runner) stepLocked() {
	r.sim.Step()
	if err := r.collector.Collect(r.sim); err != nil {
		return
	}
	if c, ok := r.sim.(abm.Converger); ok && c.Converged() {
		r.running = false
	}
}

func (r *Runner) rebuildLocked() error {
	sim, err := r.registry.Build(r.modelName, r.sliders, r.seed)
	if err != nil {
		return err
	}
	r.sim = sim
	return r.resetCollectorLocked()
}

func (r *Runner) resetCollectorLocked() error {
	c, err := r.registry.DefaultCollector(r.modelName)
	if err != nil {
		return err
	}
	r.collector = c
	return r.collector.Collect(r.sim)
}

func (r *Runner) frameLocked() Frame {
	grid := r.sim.Grid()
	agents := r.sim.Agents()
	markers := make([]Marker, 0, len(agents))
	for _, a := range agents {
		pos := a.Pos()
		p := r.portrayal(a)
		markers = append(markers, Marker{X: pos.X, Y: pos.Y, Size: p.Size, Color: p.Color})
	}
	series, err := r.collector.Series(r.seriesName)
	if err != nil {
		series = nil
	}
	if len(series) > seriesTail {
		series = series[len(series)-seriesTail:]
	}
	tail := make([]float64, len(series))
	copy(tail, series)
	var hist HistData
	if bins, err := stats.Histogram(portray.Wealths(r.sim), histogramBins); err == nil {
		hist = HistData{Counts: bins.Counts, Edges: bins.Edges}
	}
	return Frame{
		Model:      r.modelName,
		Step:       r.sim.Steps(),
		Running:    r.running,
		GridWidth:  grid.Width(),
		GridHeight: grid.Height(),
		SeriesName: r.seriesName,
		Series:     tail,
		Histogram:  hist,
		Markers:    markers,
	}
}
