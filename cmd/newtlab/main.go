package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/newtlab/internal/config"
	"github.com/san-kum/newtlab/internal/experiment"
	"github.com/san-kum/newtlab/internal/metrics"
	"github.com/san-kum/newtlab/internal/newton"
	"github.com/san-kum/newtlab/internal/problems"
	"github.com/san-kum/newtlab/internal/storage"
	"github.com/san-kum/newtlab/internal/sweep"
	"github.com/san-kum/newtlab/internal/tui"
)

var (
	dataDir    string
	tolerance  float64
	maxIter    int
	projection string
	initState  string
	configFile string
	sweepFrom  float64
	sweepTo    float64
	sweepCount int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newtlab",
		Short: "newton-raphson lab for stationarity systems",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".newtlab", "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "solve a stationarity system",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "residual norm tolerance")
	solveCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIterations, "iteration budget")
	solveCmd.Flags().StringVar(&projection, "projection", "", "post-step projection (clamp|free)")
	solveCmd.Flags().StringVar(&initState, "x0", "", "initial state, comma separated")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot convergence trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list registered problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := experiment.NewRegistry()
			for _, name := range registry.ListProblems() {
				fmt.Println(name)
			}
			return nil
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [problem]",
		Short: "step through solve iterations interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	watchCmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "residual norm tolerance")
	watchCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIterations, "iteration budget")
	watchCmd.Flags().StringVar(&projection, "projection", "", "post-step projection (clamp|free)")
	watchCmd.Flags().StringVar(&initState, "x0", "", "initial state, comma separated")

	benchCmd := &cobra.Command{
		Use:   "bench [problem]",
		Short: "benchmark solves across tolerances",
		Args:  cobra.ExactArgs(1),
		RunE:  benchProblem,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [problem]",
		Short: "solve in parallel from a family of starting points",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.0, "first start scale")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 5.0, "last start scale")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 11, "number of starting points")
	sweepCmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "residual norm tolerance")
	sweepCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIterations, "iteration budget")
	sweepCmd.Flags().StringVar(&projection, "projection", "", "post-step projection (clamp|free)")

	rootCmd.AddCommand(solveCmd, listCmd, plotCmd, exportCmd, problemsCmd, watchCmd, benchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildExperiment(cmd *cobra.Command, name string, keepTrace bool, observers ...newton.Observer) (*experiment.Experiment, newton.Problem, error) {
	registry := experiment.NewRegistry()

	var fileCfg *config.Config
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = cfg
		if !cmd.Flags().Changed("tol") {
			tolerance = cfg.Tolerance
		}
		if !cmd.Flags().Changed("max-iter") {
			maxIter = cfg.MaxIterations
		}
		if !cmd.Flags().Changed("projection") {
			projection = cfg.Projection
		}
	}

	prob, err := registry.GetProblem(name)
	if err != nil {
		return nil, nil, err
	}

	if fileCfg != nil && len(fileCfg.Params) > 0 {
		c, ok := prob.(problems.Configurable)
		if !ok {
			return nil, nil, fmt.Errorf("problem %s does not accept params", name)
		}
		for k, v := range fileCfg.Params {
			if err := c.SetParam(k, v); err != nil {
				return nil, nil, err
			}
		}
	}

	proj, err := resolveProjection(name, prob.Dim())
	if err != nil {
		return nil, nil, err
	}

	x0, err := resolveInitState(prob, fileCfg)
	if err != nil {
		return nil, nil, err
	}

	exp := experiment.New(experiment.Config{
		Problem:       name,
		InitState:     x0,
		Tolerance:     tolerance,
		MaxIterations: maxIter,
		Projection:    proj,
		KeepTrace:     keepTrace,
	})
	if err := exp.Setup(prob, observers...); err != nil {
		return nil, nil, err
	}
	return exp, prob, nil
}

func resolveProjection(name string, dim int) (newton.Projection, error) {
	switch projection {
	case "":
		return experiment.DefaultProjection(name, dim), nil
	case config.ProjectionClamp:
		return newton.ClampAll(dim), nil
	case config.ProjectionFree:
		return newton.FreeAll(dim), nil
	default:
		return nil, fmt.Errorf("unknown projection: %s", projection)
	}
}

// resolveInitState picks the starting iterate: the --x0 flag wins, then a
// configured init_state, then the problem's registry default.
func resolveInitState(prob newton.Problem, fileCfg *config.Config) (newton.State, error) {
	if initState == "" {
		if fileCfg != nil && len(fileCfg.InitState) > 0 {
			return newton.State(fileCfg.GetInitState(prob.Dim())), nil
		}
		return experiment.DefaultInitState(prob), nil
	}
	parts := strings.Split(initState, ",")
	x := make(newton.State, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad initial state component %q: %w", p, err)
		}
		x = append(x, v)
	}
	if len(x) != prob.Dim() {
		return nil, fmt.Errorf("initial state has %d components, problem wants %d", len(x), prob.Dim())
	}
	return x, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	name := args[0]

	ms := metrics.Defaults()
	observers := make([]newton.Observer, len(ms))
	for i, m := range ms {
		observers[i] = m
	}

	exp, prob, err := buildExperiment(cmd, name, true, observers...)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("solving %s...\n", name)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	projName := projection
	if projName == "" {
		projName = experiment.DefaultProjectionName(name)
	}
	runID, err := st.Save(name, tolerance, maxIter, projName, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("status: %s\n", result.Status)
	fmt.Printf("iterations: %d\n", result.Iterations)
	fmt.Printf("residual norm: %.6e\n", result.ResidualNorm)

	fmt.Println("\nfinal state:")
	for i, v := range result.State {
		fmt.Printf("  x%d: % .6f\n", i, v)
	}

	if d, ok := prob.(problems.Diagnoser); ok {
		diag := d.Diagnostics(result.State)
		keys := make([]string, 0, len(diag))
		for k := range diag {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("\ndiagnostics:")
		for _, k := range keys {
			fmt.Printf("  %s: %.6f\n", k, diag[k])
		}
	}

	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6g\n", m.Name(), m.Value())
	}

	switch result.Status {
	case newton.StatusSingular:
		return fmt.Errorf("jacobian became singular at iteration %d", result.Iterations)
	case newton.StatusExhausted:
		return fmt.Errorf("no convergence after %d iterations (residual norm %.6e)", result.Iterations, result.ResidualNorm)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	name := args[0]

	exp, _, err := buildExperiment(cmd, name, true)
	if err != nil {
		return err
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewWatch(name, result))
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tSTATUS\tITER\tRESIDUAL\tPROJ")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.3e\t%s\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Status,
			run.Iterations,
			run.ResidualNorm,
			run.Projection,
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

	norms, states, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(norms) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("problem: %s\n", meta.Problem)
	fmt.Printf("status: %s\n\n", meta.Status)

	graph := asciigraph.Plot(norms,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("residual norm vs iteration"),
	)
	fmt.Println(graph)
	fmt.Println()

	if len(states) == 0 || len(states[0]) == 0 {
		return nil
	}

	numVars := len(states[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d vs iteration", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchProblem(cmd *cobra.Command, args []string) error {
	name := args[0]

	registry := experiment.NewRegistry()
	prob, err := registry.GetProblem(name)
	if err != nil {
		return err
	}

	tolerances := []float64{1e-3, 1e-6, 1e-9}
	budgets := []int{10, 100, 1000}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOL\tBUDGET\tSTATUS\tITER\tTIME")

	for _, tol := range tolerances {
		for _, budget := range budgets {
			exp := experiment.New(experiment.Config{
				Problem:       name,
				InitState:     experiment.DefaultInitState(prob),
				Tolerance:     tol,
				MaxIterations: budget,
				Projection:    experiment.DefaultProjection(name, prob.Dim()),
			})
			if err := exp.Setup(prob); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.0e\t%d\t%s\t%d\t%v\n",
				tol, budget, result.Status, result.Iterations, elapsed)
		}
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	name := args[0]

	registry := experiment.NewRegistry()
	prob, err := registry.GetProblem(name)
	if err != nil {
		return err
	}
	dim := prob.Dim()

	proj, err := resolveProjection(name, dim)
	if err != nil {
		return err
	}

	cfg := newton.Config{
		MaxIterations: maxIter,
		Tolerance:     tolerance,
		Projection:    proj,
	}

	starts := sweep.Ray(experiment.DefaultInitState(prob), sweepCount, sweepFrom, sweepTo)
	build := func() newton.Problem {
		p, _ := registry.GetProblem(name)
		return p
	}

	outcomes := sweep.Run(context.Background(), build, cfg, starts)

	converged := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tSTATUS\tITER\tRESIDUAL")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%.3f\terror: %v\t\t\n", o.Start[0], o.Err)
			continue
		}
		if o.Result.Converged() {
			converged++
		}
		fmt.Fprintf(w, "%.3f\t%s\t%d\t%.3e\n",
			o.Start[0], o.Result.Status, o.Result.Iterations, o.Result.ResidualNorm)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d of %d starts converged\n", converged, len(outcomes))
	return nil
}
