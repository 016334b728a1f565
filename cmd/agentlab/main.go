package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/agentlab/internal/abm"
	"github.com/san-kum/agentlab/internal/batch"
	"github.com/san-kum/agentlab/internal/config"
	"github.com/san-kum/agentlab/internal/models"
	"github.com/san-kum/agentlab/internal/params"
	"github.com/san-kum/agentlab/internal/server"
	"github.com/san-kum/agentlab/internal/stats"
	"github.com/san-kum/agentlab/internal/storage"
	"github.com/san-kum/agentlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	steps   int
	seed    int64
	// Boltzmann parameters
	numAgents  int
	gridWidth  int
	gridHeight int
	// Schelling parameters
	density    float64
	minorityPC float64
	homophily  float64
	radius     int
	// Config file and preset
	configFile string
	preset     string
	// Frame rate for the live views
	frameRate int
	// Serve address
	addr string
	// Histogram options
	histColumn string
	histStep   int
	histBins   int
	// Batch options
	batchSeeds int
	batchRepl  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agentlab",
		Short: "agent-based simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".agentlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a model and save the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	addModelFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a model with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")

	serveCmd := &cobra.Command{
		Use:   "serve [model]",
		Short: "serve a model over HTTP with a browser frontend",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}
	addModelFlags(serveCmd)
	serveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	batchCmd := &cobra.Command{
		Use:   "batch [model]",
		Short: "run a model across many seeds and replications",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addModelFlags(batchCmd)
	batchCmd.Flags().IntVar(&batchSeeds, "seeds", 10, "number of consecutive seeds")
	batchCmd.Flags().IntVar(&batchRepl, "replications", 1, "replications per seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's model series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	histCmd := &cobra.Command{
		Use:   "hist [run_id]",
		Short: "histogram of an agent column at one step",
		Args:  cobra.ExactArgs(1),
		RunE:  histRun,
	}
	histCmd.Flags().StringVar(&histColumn, "column", "wealth", "agent column")
	histCmd.Flags().IntVar(&histStep, "step", -1, "step (default last)")
	histCmd.Flags().IntVar(&histBins, "bins", 10, "number of bins")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's model series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			sort.Strings(names)
			fmt.Printf("presets for %s:\n", args[0])
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list registered models",
		RunE:  listModels,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, batchCmd, listCmd, plotCmd, histCmd, exportCSVCmd, exportJSONCmd, presetsCmd, modelsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&numAgents, "n", config.DefaultN, "number of agents (boltzmann)")
	cmd.Flags().IntVar(&gridWidth, "width", 0, "grid width")
	cmd.Flags().IntVar(&gridHeight, "height", 0, "grid height")
	cmd.Flags().Float64Var(&density, "density", 0.625, "occupancy density (schelling)")
	cmd.Flags().Float64Var(&minorityPC, "minority", 0.5, "minority fraction (schelling)")
	cmd.Flags().Float64Var(&homophily, "homophily", 0.4, "required like-neighbor fraction (schelling)")
	cmd.Flags().IntVar(&radius, "radius", 1, "vision radius (schelling)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveParams layers the parameter sources for a model: registry
// defaults, then preset, then config file, then any explicitly set
// flags. It also resolves the step count and seed the same way.
func resolveParams(cmd *cobra.Command, registry *models.Registry, model string) (params.Set, error) {
	p, err := registry.DefaultParams(model)
	if err != nil {
		return nil, err
	}

	if preset != "" {
		pre := config.GetPreset(model, preset)
		if pre == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		pre.Config.ApplyTo(p)
		if !cmd.Flags().Changed("steps") {
			steps = pre.Config.Steps
		}
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyTo(p)
		if !cmd.Flags().Changed("steps") && cfg.Steps != 0 {
			steps = cfg.Steps
		}
		if !cmd.Flags().Changed("seed") && cfg.Seed != 0 {
			seed = cfg.Seed
		}
	}

	flagValues := map[string]float64{
		"n":           float64(numAgents),
		"width":       float64(gridWidth),
		"height":      float64(gridHeight),
		"density":     density,
		"minority_pc": minorityPC,
		"homophily":   homophily,
		"radius":      float64(radius),
	}
	flagNames := map[string]string{
		"n": "n", "width": "width", "height": "height",
		"density": "density", "minority": "minority_pc",
		"homophily": "homophily", "radius": "radius",
	}
	for flag, param := range flagNames {
		if cmd.Flags().Changed(flag) {
			if err := p.Put(param, flagValues[param]); err != nil {
				return nil, fmt.Errorf("flag --%s does not apply to model %s", flag, model)
			}
		}
	}
	return p, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	model := args[0]
	registry := models.NewRegistry()

	p, err := resolveParams(cmd, registry, model)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sim, err := registry.Build(model, p, seed)
	if err != nil {
		return err
	}
	collector, err := registry.DefaultCollector(model)
	if err != nil {
		return err
	}

	fmt.Printf("running %s for %d steps...\n", model, steps)
	start := time.Now()

	if err := collector.Collect(sim); err != nil {
		return err
	}
	converged := false
	for i := 0; i < steps; i++ {
		sim.Step()
		if err := collector.Collect(sim); err != nil {
			return err
		}
		if c, ok := sim.(abm.Converger); ok && c.Converged() {
			converged = true
			break
		}
	}
	elapsed := time.Since(start)

	runID, err := st.Save(model, seed, sim.Steps(), p.Values(), collector)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", sim.Steps())
	if converged {
		fmt.Println("converged early")
	}
	fmt.Println("\nmetrics:")
	names := collector.ModelNames()
	latest := collector.Latest()
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, latest[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	model := args[0]
	registry := models.NewRegistry()

	p, err := resolveParams(cmd, registry, model)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(registry, model, p, seed, frameRate)
	if err != nil {
		return err
	}
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err = prog.Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	model := args[0]
	registry := models.NewRegistry()

	p, err := resolveParams(cmd, registry, model)
	if err != nil {
		return err
	}

	srv, err := server.New(registry, model, p, seed, frameRate)
	if err != nil {
		return err
	}
	fmt.Printf("serving %s on %s\n", model, addr)
	return srv.Run(addr)
}

func runBatch(cmd *cobra.Command, args []string) error {
	model := args[0]
	registry := models.NewRegistry()

	if preset != "" {
		if pre := config.GetPreset(model, preset); pre != nil {
			if !cmd.Flags().Changed("seeds") {
				batchSeeds = pre.Seeds
			}
			if !cmd.Flags().Changed("replications") {
				batchRepl = pre.Replications
			}
		}
	}

	p, err := resolveParams(cmd, registry, model)
	if err != nil {
		return err
	}

	cfg := batch.Config{
		Model:        model,
		Params:       p,
		Steps:        steps,
		Seeds:        batchSeeds,
		Replications: batchRepl,
		SeedStart:    seed,
	}

	fmt.Printf("running %s: %d seeds x %d replications, %d steps each\n",
		model, cfg.Seeds, cfg.Replications, cfg.Steps)
	start := time.Now()

	summaries, err := batch.Run(context.Background(), registry, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed %d runs in %v\n\n", len(summaries), time.Since(start))

	metricNames := sortedMetricNames(summaries)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "SEED\tREPL\tSTEPS\tCONVERGED"
	for _, name := range metricNames {
		header += "\t" + name
	}
	fmt.Fprintln(w, header)
	for _, s := range summaries {
		row := fmt.Sprintf("%d\t%d\t%d\t%v", s.Seed, s.Replication, s.Steps, s.Converged)
		for _, name := range metricNames {
			row += fmt.Sprintf("\t%.4f", s.Metrics[name])
		}
		fmt.Fprintln(w, row)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmeans:")
	for _, name := range metricNames {
		values := make([]float64, len(summaries))
		for i, s := range summaries {
			values[i] = s.Metrics[name]
		}
		fmt.Printf("  %s: %.6f\n", name, stats.Mean(values))
	}
	return nil
}

func sortedMetricNames(summaries []batch.Summary) []string {
	if len(summaries) == 0 {
		return nil
	}
	names := make([]string, 0, len(summaries[0].Metrics))
	for name := range summaries[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSEED\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func histRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	step := histStep
	if step < 0 {
		last, err := st.LastStep(runID)
		if err != nil {
			return err
		}
		step = last
	}

	values, err := st.LoadAgentValues(runID, histColumn, step)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no %s values at step %d", histColumn, step)
	}

	bins, err := stats.Histogram(values, histBins)
	if err != nil {
		return err
	}

	fmt.Printf("%s at step %d (%d agents)\n\n", histColumn, step, len(values))
	max := 0
	for _, c := range bins.Counts {
		if c > max {
			max = c
		}
	}
	for i, count := range bins.Counts {
		bar := ""
		if max > 0 {
			for j := 0; j < count*40/max; j++ {
				bar += "█"
			}
		}
		fmt.Printf("%8.2f  %-40s %d\n", bins.Edges[i], bar, count)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(series))
	rows := 0
	for name, data := range series {
		names = append(names, name)
		if len(data) > rows {
			rows = len(data)
		}
	}
	sort.Strings(names)

	w := csv.NewWriter(os.Stdout)
	if err := w.Write(append([]string{"step"}, names...)); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa(i)}
		for _, name := range names {
			if i < len(series[name]) {
				row = append(row, strconv.FormatFloat(series[name][i], 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.Export(args[0], os.Stdout)
}

func listModels(cmd *cobra.Command, args []string) error {
	registry := models.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tSERIES\tPARAMETERS")
	for _, name := range registry.List() {
		p, err := registry.DefaultParams(name)
		if err != nil {
			return err
		}
		paramDesc := ""
		for i, sl := range p {
			if i > 0 {
				paramDesc += ", "
			}
			paramDesc += fmt.Sprintf("%s=%g", sl.Name, sl.Value)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, registry.TrackedSeries(name), paramDesc)
	}
	return w.Flush()
}
