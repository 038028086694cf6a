package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/aglogen/internal/agg"
	"github.com/san-kum/aglogen/internal/batch"
	"github.com/san-kum/aglogen/internal/boxcount"
	"github.com/san-kum/aglogen/internal/config"
	"github.com/san-kum/aglogen/internal/export"
	"github.com/san-kum/aglogen/internal/storage"
	"github.com/san-kum/aglogen/internal/tui"
	"github.com/san-kum/aglogen/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string

	numParticles int
	seed         int64
	radiusMin    float64
	radiusMax    float64
	sticking     float64
	launchFactor float64
	escapeFactor float64
	maxWalkSteps int
	maxAttempts  int
	selection    string
	targetDf     float64
	targetKf     float64
	maxRotations int
	geometry     string
	sinterMode   string
	sinterCoeff  float64

	configFile string
	preset     string
	noSave     bool

	withBoxCount  bool
	surfacePoints int
	precision     int
	excludeFinest int

	batchRuns  int
	workers    int
	seedStart  int64
	plainBatch bool

	plane      string
	exportFmt  string
	exportOut  string
	exportSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aglogen",
		Short: "particle aggregation and fractal morphology lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".aglogen", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "grow one aggregate",
		Args:  cobra.ExactArgs(1),
		RunE:  runAggregate,
	}
	addSimFlags(runCmd)
	addAnalysisFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the run to disk")

	limitingCmd := &cobra.Command{
		Use:   "limiting [geometry]",
		Short: "build a deterministic reference geometry",
		Args:  cobra.ExactArgs(1),
		RunE:  runLimiting,
	}
	limitingCmd.Flags().IntVar(&numParticles, "n", 50, "number of particles")
	limitingCmd.Flags().Float64Var(&sinterCoeff, "sinter-coeff", 1.0, "fixed sintering coefficient")
	limitingCmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the run to disk")
	addAnalysisFlags(limitingCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [algorithm]",
		Short: "run a seed-sweep study",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addSimFlags(batchCmd)
	addAnalysisFlags(batchCmd)
	batchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	batchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	batchCmd.Flags().IntVar(&batchRuns, "runs", config.DefaultRuns, "number of runs")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = one per cpu)")
	batchCmd.Flags().Int64Var(&seedStart, "seed-start", config.DefaultSeedStart, "first seed")
	batchCmd.Flags().BoolVar(&plainBatch, "plain", false, "line-based progress instead of the TUI")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing runs to disk")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "surface box counting on a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	addAnalysisFlags(analyzeCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the growth trace of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "render a stored aggregate in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, yz)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFmt, "format", "svg", "output format (svg, trace-svg, json)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, yz)")
	exportCmd.Flags().IntVar(&exportSize, "size", 800, "svg edge length in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets [algorithm]",
		Short: "list presets for an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(agg.Algorithm(args[0]))
			if len(names) == 0 {
				fmt.Printf("no presets for algorithm: %s\n", args[0])
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

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, limitingCmd, batchCmd, analyzeCmd, listCmd, plotCmd, showCmd, exportCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&numParticles, "n", 200, "number of particles")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&radiusMin, "radius-min", 1.0, "minimum primary radius")
	cmd.Flags().Float64Var(&radiusMax, "radius-max", 1.0, "maximum primary radius")
	cmd.Flags().Float64Var(&sticking, "stick", 1.0, "sticking probability")
	cmd.Flags().Float64Var(&launchFactor, "launch", 2.0, "launch radius factor")
	cmd.Flags().Float64Var(&escapeFactor, "escape", 3.0, "escape radius factor")
	cmd.Flags().IntVar(&maxWalkSteps, "walk-steps", 200_000, "random walk step budget")
	cmd.Flags().IntVar(&maxAttempts, "attempts", 20_000, "consecutive failure budget")
	cmd.Flags().StringVar(&selection, "selection", string(agg.SelectMobility), "cluster pair selection (uniform, mobility)")
	cmd.Flags().Float64Var(&targetDf, "df", 1.8, "target fractal dimension (tunable)")
	cmd.Flags().Float64Var(&targetKf, "kf", 1.3, "target prefactor (tunable)")
	cmd.Flags().IntVar(&maxRotations, "rotations", 25, "orientation search budget (tunable)")
	cmd.Flags().StringVar(&geometry, "geometry", string(agg.GeomChain), "limiting-case geometry")
	cmd.Flags().StringVar(&sinterMode, "sinter", string(agg.SinterNone), "sintering mode (none, fixed)")
	cmd.Flags().Float64Var(&sinterCoeff, "sinter-coeff", 0.95, "fixed sintering coefficient")
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&withBoxCount, "boxcount", false, "also run surface box counting")
	cmd.Flags().IntVar(&surfacePoints, "points", 64, "surface points per particle")
	cmd.Flags().IntVar(&precision, "precision", 18, "finest box-counting depth (bits per axis)")
	cmd.Flags().IntVar(&excludeFinest, "exclude", 0, "finest scales to exclude from the fit (overrides auto-detection)")
}

// buildParams layers preset, config file, and changed flags, in that
// order of increasing precedence.
func buildParams(cmd *cobra.Command, alg agg.Algorithm) (agg.Params, error) {
	p := agg.DefaultParams(alg)

	if preset != "" {
		cfg := config.GetPreset(alg, preset)
		if cfg == nil {
			return p, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(alg))
		}
		p = cfg.Simulation
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return p, fmt.Errorf("failed to load config: %w", err)
		}
		p = cfg.Simulation
		p.Algorithm = alg
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		p.N = numParticles
	}
	// Without a preset or config file the time-derived flag default makes
	// every invocation a fresh seed.
	if flags.Changed("seed") || (preset == "" && configFile == "") {
		p.Seed = seed
	}
	if flags.Changed("radius-min") {
		p.RadiusMin = radiusMin
	}
	if flags.Changed("radius-max") {
		p.RadiusMax = radiusMax
	}
	if flags.Changed("stick") {
		p.StickingProbability = sticking
	}
	if flags.Changed("launch") {
		p.LaunchFactor = launchFactor
	}
	if flags.Changed("escape") {
		p.EscapeFactor = escapeFactor
	}
	if flags.Changed("walk-steps") {
		p.MaxWalkSteps = maxWalkSteps
	}
	if flags.Changed("attempts") {
		p.MaxAttempts = maxAttempts
	}
	if flags.Changed("selection") {
		p.Selection = agg.PairSelection(selection)
	}
	if flags.Changed("df") {
		p.TargetDf = targetDf
	}
	if flags.Changed("kf") {
		p.TargetKf = targetKf
	}
	if flags.Changed("rotations") {
		p.MaxRotations = maxRotations
	}
	if flags.Changed("geometry") {
		p.Geometry = agg.Geometry(geometry)
	}
	if flags.Changed("sinter") {
		switch agg.SinterMode(sinterMode) {
		case agg.SinterNone:
			p.Sintering = agg.NoSintering()
		case agg.SinterFixed:
			p.Sintering = agg.FixedSintering(sinterCoeff)
		default:
			return p, fmt.Errorf("unknown sintering mode: %s", sinterMode)
		}
	}
	return p, nil
}

func analysisParams() boxcount.Params {
	p := boxcount.DefaultParams()
	p.SurfacePoints = surfacePoints
	p.Precision = precision
	p.ExcludeFinest = excludeFinest
	return p
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	params, err := buildParams(cmd, agg.Algorithm(args[0]))
	if err != nil {
		return err
	}
	return executeRun(params)
}

func runLimiting(cmd *cobra.Command, args []string) error {
	params := agg.DefaultParams(agg.Limiting)
	params.Geometry = agg.Geometry(args[0])
	params.N = numParticles
	if cmd.Flags().Changed("sinter-coeff") {
		params.Sintering = agg.FixedSintering(sinterCoeff)
	}
	return executeRun(params)
}

func executeRun(params agg.Params) error {
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("growing %s aggregate, n=%d, seed=%d...\n", params.Algorithm, params.N, params.Seed)
	result, err := agg.Run(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", result.Elapsed)

	var analysis *boxcount.Result
	if withBoxCount {
		res, err := boxcount.Analyze(ctx, result.Spheres(), analysisParams())
		if err != nil {
			return err
		}
		analysis = &res
	}

	fmt.Println(viz.SummaryPanel(result))
	if analysis != nil {
		fmt.Println(viz.AnalysisPanel(analysis))
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(result, analysis)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	params, err := buildParams(cmd, agg.Algorithm(args[0]))
	if err != nil {
		return err
	}
	if configFile != "" {
		cfg, loadErr := config.Load(configFile)
		if loadErr != nil {
			return loadErr
		}
		if !cmd.Flags().Changed("runs") {
			batchRuns = cfg.Batch.Runs
		}
		if !cmd.Flags().Changed("workers") {
			workers = cfg.Batch.Workers
		}
		if !cmd.Flags().Changed("seed-start") {
			seedStart = cfg.Batch.SeedStart
		}
	}
	if batchRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", batchRuns)
	}

	ctx, cancel := signalContext()
	defer cancel()

	jobs := batch.SeedSweep(params, batchRuns, seedStart)
	runner := batch.Runner{Workers: workers}
	if withBoxCount {
		ap := analysisParams()
		runner.Analysis = &ap
	}

	var outcomes []batch.Outcome
	if plainBatch {
		runner.OnDone = func(done, total int) {
			fmt.Printf("run %d/%d done\n", done, total)
		}
		outcomes = runner.Run(ctx, jobs)
	} else {
		program := tea.NewProgram(tui.NewProgress(
			fmt.Sprintf("%s seed sweep", params.Algorithm), len(jobs)))
		runner.OnDone = func(done, total int) {
			program.Send(tui.ProgressMsg{Done: done, Total: total})
		}
		go func() {
			outcomes = runner.Run(ctx, jobs)
			program.Send(tui.DoneMsg{Outcomes: outcomes})
		}()
		if _, err := program.Run(); err != nil {
			return err
		}
		cancel()
	}
	if outcomes == nil {
		return fmt.Errorf("study aborted")
	}

	stats := batch.Aggregate(outcomes)
	fmt.Printf("\ncompleted %d, failed %d\n", stats.Completed, stats.Failed)
	if stats.Completed > 0 {
		fmt.Printf("Df = %.3f +/- %.3f   kf = %.3f   Rg = %.3f\n",
			stats.MeanDf, stats.StdDf, stats.MeanKf, stats.MeanRg)
	}

	if noSave {
		return batch.FirstError(outcomes)
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for _, out := range outcomes {
		if out.Err != nil || out.Result == nil {
			continue
		}
		if _, err := st.Save(out.Result, out.Analysis); err != nil {
			return err
		}
	}
	return batch.FirstError(outcomes)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	result := &agg.Result{Particles: particles}
	analysis, err := boxcount.Analyze(ctx, result.Spheres(), analysisParams())
	if err != nil {
		return err
	}

	fmt.Println(viz.AnalysisPanel(&analysis))
	fmt.Println(viz.BoxCountPlot(analysis.Levels, 70))
	return nil
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
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tN\tDF\tKF\tRG\tSTATUS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%.3f\t%.3f\t%s\n",
			run.ID,
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.Summary.Df,
			run.Summary.Kf,
			run.Summary.Rg,
			run.Status,
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
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\nalgorithm: %s\nsamples: %d\n\n", meta.ID, meta.Algorithm, len(trace))
	fmt.Println(viz.TracePlot(trace, 70))
	fmt.Println()
	fmt.Println(viz.ScalingPlot(trace, 70))
	if meta.BoxCounting != nil {
		fmt.Println()
		fmt.Println(viz.BoxCountPlot(meta.BoxCounting.Levels, 70))
	}
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	result := &agg.Result{Particles: particles}
	fmt.Println(viz.Render(result.Spheres(), viz.Plane(plane), 70, 28))
	fmt.Printf("run: %s   algorithm: %s   n=%d   Df=%.3f\n",
		meta.ID, meta.Algorithm, meta.N, meta.Summary.Df)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var out string
	switch exportFmt {
	case "svg":
		particles, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		result := &agg.Result{Particles: particles}
		out = export.AggregateToSVG(result.Spheres(), viz.Plane(plane), exportSize)
	case "trace-svg":
		trace, err := st.LoadTrace(runID)
		if err != nil {
			return err
		}
		out = export.TraceToSVG(trace, exportSize, exportSize/2)
		if out == "" {
			return fmt.Errorf("run %s has no usable trace", runID)
		}
	case "json":
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return err
		}
		out = string(data)
	default:
		return fmt.Errorf("unknown format: %s", exportFmt)
	}

	if exportOut == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(out), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", filepath.Clean(exportOut))
	return nil
}
