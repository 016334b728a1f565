package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/agentlab/internal/abm"
	"github.com/san-kum/agentlab/internal/collect"
	"github.com/san-kum/agentlab/internal/models"
	"github.com/san-kum/agentlab/internal/params"
	"github.com/san-kum/agentlab/internal/portray"
	"github.com/san-kum/agentlab/internal/stats"
)

const (
	canvasCols    = 50
	canvasRows    = 20
	histogramBins = 10
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeSlideStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model is the bubbletea program driving the live grid view.
type Model struct {
	registry   *models.Registry
	modelName  string
	sim        abm.Model
	collector  *collect.Collector
	sliders    params.Set
	portrayal  portray.Func
	seriesName string
	canvas     *Canvas
	seed       int64
	fps        int
	running    bool
	selected   int
	showHelp   bool
	err        error
}

// NewModel builds the initial view state for a registered model.
func NewModel(reg *models.Registry, name string, p params.Set, seed int64, fps int) (Model, error) {
	if fps < 1 {
		fps = 1
	}
	m := Model{
		registry:   reg,
		modelName:  name,
		sliders:    p,
		portrayal:  reg.Portrayal(name),
		seriesName: reg.TrackedSeries(name),
		canvas:     NewCanvas(canvasCols, canvasRows),
		seed:       seed,
		fps:        fps,
		running:    true,
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the model on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			m.running = false
			m.step()
		case "r":
			m.sim.Reset()
			if err := m.resetCollector(); err != nil {
				m.err = err
			}
		case "tab":
			if len(m.sliders) > 0 {
				m.selected = (m.selected + 1) % len(m.sliders)
			}
		case "up", "k":
			m.adjustSlider(1)
		case "down", "j":
			m.adjustSlider(-1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the simulation one tick and records the reporters.
func (m *Model) step() {
	m.sim.Step()
	if err := m.collector.Collect(m.sim); err != nil {
		m.err = err
	}
	if c, ok := m.sim.(abm.Converger); ok && c.Converged() {
		m.running = false
	}
}

// adjustSlider nudges the selected slider by its step and rebuilds the
// model, since sliders describe construction inputs.
func (m *Model) adjustSlider(dir int) {
	if len(m.sliders) == 0 {
		return
	}
	sl := m.sliders[m.selected]
	if err := m.sliders.Apply(sl.Name, sl.Value+float64(dir)*sl.Step); err != nil {
		m.err = err
		return
	}
	if err := m.rebuild(); err != nil {
		m.err = err
	}
}

func (m *Model) rebuild() error {
	sim, err := m.registry.Build(m.modelName, m.sliders, m.seed)
	if err != nil {
		return err
	}
	m.sim = sim
	return m.resetCollector()
}

func (m *Model) resetCollector() error {
	c, err := m.registry.DefaultCollector(m.modelName)
	if err != nil {
		return err
	}
	m.collector = c
	return m.collector.Collect(m.sim)
}

// draw projects every agent's grid cell onto the braille canvas. Large
// markers get a 3x3 dot block, small ones a single dot.
func (m *Model) draw() {
	m.canvas.Clear()
	grid := m.sim.Grid()
	gw, gh := grid.Width(), grid.Height()
	if gw == 0 || gh == 0 {
		return
	}
	dw, dh := m.canvas.DotWidth(), m.canvas.DotHeight()
	for _, a := range m.sim.Agents() {
		pos := a.Pos()
		x := pos.X*dw/gw + dw/(2*gw)
		y := pos.Y*dh/gh + dh/(2*gh)
		p := m.portrayal(a)
		if p.Size >= portray.SizeRich {
			m.canvas.FillRect(x-1, y-1, 3, 3)
		} else {
			m.canvas.Set(x, y)
		}
	}
}

// View renders the grid canvas next to the stats and slider panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)) + "\n")
	s.WriteString(fmt.Sprintf("%s\n\n", status))

	if series, err := m.collector.Series(m.seriesName); err == nil && len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(m.seriesName))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Steps())) + "\n")
	s.WriteString(labelStyle.Render("Agents") + valueStyle.Render(fmt.Sprintf("%d", len(m.sim.Agents()))) + "\n")
	latest := m.collector.Latest()
	for _, name := range m.collector.ModelNames() {
		s.WriteString(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.3f", latest[name])) + "\n")
	}
	s.WriteString(m.colorCounts())

	s.WriteString("\n" + m.histogram())

	s.WriteString("\nPARAMETERS\n")
	for i, sl := range m.sliders {
		span := sl.Max - sl.Min
		ratio := 0.0
		if span > 0 {
			ratio = (sl.Value - sl.Min) / span
		}
		filled := int(ratio * 10)
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", 10-filled) + "]"
		line := fmt.Sprintf("%-12s %s %g", sl.Name, bar, sl.Value)
		if i == m.selected {
			s.WriteString(activeSlideStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString(fmt.Sprintf("\nerror: %v\n", m.err))
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause S:Step R:Reset\nTab:Select ↑↓:Tune\nQ:Quit ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

// colorCounts summarizes how many agents draw in each portrayal color.
func (m Model) colorCounts() string {
	counts := make(map[string]int)
	var order []string
	for _, a := range m.sim.Agents() {
		c := m.portrayal(a).Color
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}
	var s strings.Builder
	for _, c := range order {
		s.WriteString(labelStyle.Render(c) + valueStyle.Render(fmt.Sprintf("%d", counts[c])) + "\n")
	}
	return s.String()
}

// histogram renders the live wealth distribution as bar rows.
func (m Model) histogram() string {
	values := portray.Wealths(m.sim)
	bins, err := stats.Histogram(values, histogramBins)
	if err != nil {
		return ""
	}
	max := 0
	for _, c := range bins.Counts {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return ""
	}
	var s strings.Builder
	s.WriteString("WEALTH\n")
	for i, c := range bins.Counts {
		bar := strings.Repeat("█", c*20/max)
		s.WriteString(fmt.Sprintf("%6.1f %s %d\n", bins.Edges[i], bar, c))
	}
	return s.String()
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  S        - Advance a single step    ║
║  R        - Reset the model          ║
║  Tab      - Select next slider       ║
║  Up/K     - Increase slider          ║
║  Down/J   - Decrease slider          ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
