// Package batch runs a model across many seeds in parallel and
// aggregates the final reporter values, the way the upstream benchmark
// sweeps are defined (a seed count times a replication count).
package batch

import (
	"context"
	"sync"

	"github.com/san-kum/agentlab/internal/abm"
	"github.com/san-kum/agentlab/internal/models"
	"github.com/san-kum/agentlab/internal/params"
)

type Config struct {
	Model        string
	Params       params.Set
	Steps        int
	Seeds        int
	Replications int
	SeedStart    int64
}

// Summary is the outcome of one replication.
type Summary struct {
	Seed        int64              `json:"seed"`
	Replication int                `json:"replication"`
	Steps       int                `json:"steps"`
	Converged   bool               `json:"converged"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Run executes Seeds x Replications model runs concurrently. Each run
// builds a fresh model and collector; replication r of seed s uses seed
// SeedStart + s (replications differ only by their run slot, matching
// the benchmark layout where replications re-measure the same seed).
func Run(ctx context.Context, registry *models.Registry, cfg Config) ([]Summary, error) {
	total := cfg.Seeds * cfg.Replications
	summaries := make([]Summary, total)
	errs := make([]error, total)

	var wg sync.WaitGroup
	for s := 0; s < cfg.Seeds; s++ {
		for r := 0; r < cfg.Replications; r++ {
			wg.Add(1)
			go func(s, r int) {
				defer wg.Done()
				idx := s*cfg.Replications + r
				seed := cfg.SeedStart + int64(s)
				summaries[idx], errs[idx] = runOne(ctx, registry, cfg, seed, r)
			}(s, r)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

func runOne(ctx context.Context, registry *models.Registry, cfg Config, seed int64, replication int) (Summary, error) {
	m, err := registry.Build(cfg.Model, cfg.Params.Clone(), seed)
	if err != nil {
		return Summary{}, err
	}
	c, err := registry.DefaultCollector(cfg.Model)
	if err != nil {
		return Summary{}, err
	}

	converged := false
	steps := 0
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return Summary{}, ctx.Err()
		default:
		}

		if err := c.Collect(m); err != nil {
			return Summary{}, err
		}
		m.Step()
		steps++

		if conv, ok := m.(abm.Converger); ok && conv.Converged() {
			converged = true
			break
		}
	}
	if err := c.Collect(m); err != nil {
		return Summary{}, err
	}

	return Summary{
		Seed:        seed,
		Replication: replication,
		Steps:       steps,
		Converged:   converged,
		Metrics:     c.Latest(),
	}, nil
}
