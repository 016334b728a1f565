// Package collect gathers model- and agent-level series while a model
// runs.
//
// A Collector is configured with named reporter functions. Each call to
// Collect evaluates every model reporter against the model and every
// agent reporter against every agent, appending to per-name series and
// flat per-agent records. Arbitrary row-oriented tables are also
// supported for event-style data.
package collect

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/san-kum/agentlab/internal/abm"
)

var (
	ErrNoReporters   = errors.New("collect: no reporters defined")
	ErrUnknownSeries = errors.New("collect: unknown series")
	ErrUnknownTable  = errors.New("collect: unknown table")
	ErrMissingColumn = errors.New("collect: row missing column")
)

// ModelReporter derives one model-level value per step.
type ModelReporter func(m abm.Model) float64

// AgentReporter derives one value per agent per step.
type AgentReporter func(a abm.Agent) float64

// AgentRecord is one agent's reported values at one step. Values align
// with the collector's AgentNames order.
type AgentRecord struct {
	Step    int
	AgentID int
	Values  []float64
}

type Collector struct {
	modelNames     []string
	modelReporters map[string]ModelReporter
	agentNames     []string
	agentReporters map[string]AgentReporter

	modelVars    map[string][]float64
	agentRecords []AgentRecord
	tables       map[string]*Table
}

// Table is a named set of columns rows are appended to.
type Table struct {
	Columns []string
	Rows    [][]any
}

func New() *Collector {
	return &Collector{
		modelReporters: make(map[string]ModelReporter),
		agentReporters: make(map[string]AgentReporter),
		modelVars:      make(map[string][]float64),
		tables:         make(map[string]*Table),
	}
}

// AddModelReporter registers a model-level reporter. Re-registering a
// name replaces the reporter but keeps any collected series.
func (c *Collector) AddModelReporter(name string, r ModelReporter) {
	if _, ok := c.modelReporters[name]; !ok {
		c.modelNames = append(c.modelNames, name)
		c.modelVars[name] = nil
	}
	c.modelReporters[name] = r
}

// AddAgentReporter registers an agent-level reporter.
func (c *Collector) AddAgentReporter(name string, r AgentReporter) {
	if _, ok := c.agentReporters[name]; !ok {
		c.agentNames = append(c.agentNames, name)
	}
	c.agentReporters[name] = r
}

// AddTable declares a table with fixed columns.
func (c *Collector) AddTable(name string, columns []string) {
	cols := make([]string, len(columns))
	copy(cols, columns)
	c.tables[name] = &Table{Columns: cols}
}

// Collect evaluates every reporter against the model's current state.
func (c *Collector) Collect(m abm.Model) error {
	if len(c.modelReporters) == 0 && len(c.agentReporters) == 0 {
		return ErrNoReporters
	}

	for _, name := range c.modelNames {
		c.modelVars[name] = append(c.modelVars[name], c.modelReporters[name](m))
	}

	if len(c.agentReporters) > 0 {
		step := m.Steps()
		for _, a := range m.Agents() {
			rec := AgentRecord{Step: step, AgentID: a.ID(), Values: make([]float64, len(c.agentNames))}
			for i, name := range c.agentNames {
				rec.Values[i] = c.agentReporters[name](a)
			}
			c.agentRecords = append(c.agentRecords, rec)
		}
	}
	return nil
}

// AddTableRow appends a row to a declared table. Missing columns are an
// error unless fillMissing is set, in which case they become nil.
func (c *Collector) AddTableRow(table string, row map[string]any, fillMissing bool) error {
	t, ok := c.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	vals := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		v, present := row[col]
		if !present {
			if !fillMissing {
				return fmt.Errorf("%w: %s", ErrMissingColumn, col)
			}
			continue
		}
		vals[i] = v
	}
	t.Rows = append(t.Rows, vals)
	return nil
}

// Series returns the collected values for one model reporter.
func (c *Collector) Series(name string) ([]float64, error) {
	v, ok := c.modelVars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeries, name)
	}
	return v, nil
}

// ModelNames returns reporter names in registration order.
func (c *Collector) ModelNames() []string {
	out := make([]string, len(c.modelNames))
	copy(out, c.modelNames)
	return out
}

// AgentNames returns agent reporter names in registration order.
func (c *Collector) AgentNames() []string {
	out := make([]string, len(c.agentNames))
	copy(out, c.agentNames)
	return out
}

// AgentRecords returns all collected agent rows.
func (c *Collector) AgentRecords() []AgentRecord {
	return c.agentRecords
}

// Table returns a declared table.
func (c *Collector) TableByName(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return t, nil
}

// Latest returns the final value of every model series, for run
// summaries.
func (c *Collector) Latest() map[string]float64 {
	out := make(map[string]float64, len(c.modelNames))
	for _, name := range c.modelNames {
		if s := c.modelVars[name]; len(s) > 0 {
			out[name] = s[len(s)-1]
		}
	}
	return out
}

// ModelVarsRows renders the model series as CSV rows: a header of
// "step" plus reporter names, then one row per collected step.
func (c *Collector) ModelVarsRows() [][]string {
	names := make([]string, len(c.modelNames))
	copy(names, c.modelNames)
	sort.Strings(names)

	rows := [][]string{append([]string{"step"}, names...)}
	steps := 0
	for _, name := range names {
		if n := len(c.modelVars[name]); n > steps {
			steps = n
		}
	}
	for i := 0; i < steps; i++ {
		row := []string{strconv.Itoa(i)}
		for _, name := range names {
			s := c.modelVars[name]
			if i < len(s) {
				row = append(row, strconv.FormatFloat(s[i], 'f', 6, 64))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// AgentRows renders the agent records as CSV rows.
func (c *Collector) AgentRows() [][]string {
	rows := [][]string{append([]string{"step", "agent_id"}, c.agentNames...)}
	for _, rec := range c.agentRecords {
		row := []string{strconv.Itoa(rec.Step), strconv.Itoa(rec.AgentID)}
		for _, v := range rec.Values {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		rows = append(rows, row)
	}
	return rows
}
