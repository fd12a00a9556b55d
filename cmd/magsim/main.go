package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/magsim/internal/config"
	"github.com/san-kum/magsim/internal/export"
	"github.com/san-kum/magsim/internal/field"
	"github.com/san-kum/magsim/internal/fieldline"
	"github.com/san-kum/magsim/internal/grid"
	"github.com/san-kum/magsim/internal/storage"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	resolution int
	workers    int
	save       bool
	// profile
	axis      string
	at        float64
	from      float64
	to        float64
	samples   int
	component string
	// trace
	seedsPerAxis int
	maxSteps     int
	svgPath      string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "magsim"})

func main() {
	rootCmd := &cobra.Command{
		Use:           "magsim",
		Short:         "magnetostatic field lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".magsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate the field on the scene grid",
		Args:  cobra.NoArgs,
		RunE:  runEval,
	}
	sceneFlags(evalCmd)
	evalCmd.Flags().BoolVar(&save, "save", false, "store the sampled field")

	pointCmd := &cobra.Command{
		Use:   "point [x] [y]",
		Short: "field at a single point",
		Args:  cobra.ExactArgs(2),
		RunE:  runPoint,
	}
	sceneFlags(pointCmd)

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "plot the field along a line",
		Args:  cobra.NoArgs,
		RunE:  runProfile,
	}
	sceneFlags(profileCmd)
	profileCmd.Flags().StringVar(&axis, "axis", "y", "axis to sweep along (x or y)")
	profileCmd.Flags().Float64Var(&at, "at", 0, "fixed coordinate on the other axis")
	profileCmd.Flags().Float64Var(&from, "from", 0, "sweep start (default: scene range)")
	profileCmd.Flags().Float64Var(&to, "to", 0, "sweep end (default: scene range)")
	profileCmd.Flags().IntVar(&samples, "samples", 80, "number of samples")
	profileCmd.Flags().StringVar(&component, "component", "mag", "quantity to plot (mag, bx, by)")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "trace field lines from a seed lattice",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	sceneFlags(traceCmd)
	traceCmd.Flags().IntVar(&seedsPerAxis, "seeds", 4, "seeds per axis")
	traceCmd.Flags().IntVar(&maxSteps, "max-steps", fieldline.DefaultMaxSteps, "step budget per direction")
	traceCmd.Flags().StringVar(&svgPath, "svg", "", "write the traced lines to an svg file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSOURCES\tRESOLUTION")
			for _, name := range config.ListPresets() {
				sc := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\n", name, describeKinds(sc.Sources), sc.Grid.Resolution)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(evalCmd, pointCmd, profileCmd, traceCmd, listCmd, showCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(err)
		stop()
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "coil_magnet", "use preset scene")
	cmd.Flags().IntVar(&resolution, "resolution", config.DefaultResolution, "samples per axis")
	cmd.Flags().IntVar(&workers, "workers", 0, "evaluation goroutines (0: one per CPU)")
}

// loadScene resolves the scene from a file or a preset, then applies flag
// overrides. A file wins over a preset.
func loadScene(cmd *cobra.Command) (*config.Scene, error) {
	var sc *config.Scene
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		sc = loaded
	} else {
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("resolution") {
		sc.Grid.Resolution = resolution
	}
	if cmd.Flags().Changed("workers") {
		sc.Workers = workers
	}
	logger.Debug("scene loaded", "name", sc.Name, "sources", len(sc.Sources), "resolution", sc.Grid.Resolution)
	return sc, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	eng, err := sc.Build()
	if err != nil {
		return err
	}
	if eng.Len() == 0 {
		logger.Warn("scene has no sources, field is zero everywhere", "scene", sc.Name)
	}

	start := time.Now()
	sample, err := eng.Evaluate(sc.Grid.X, sc.Grid.Y, sc.Grid.Resolution)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	stats := sample.Stats()
	logger.Info("evaluated", "scene", sc.Name, "points", stats.Points, "elapsed", elapsed)
	if stats.NonFinite > 0 {
		logger.Warn("non-finite samples on winding edges", "count", stats.NonFinite)
	}
	printStats(sc, stats)

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(sc, sample)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s %s\n", label.Render("run id:"), value.Render(runID))
	return nil
}

func runPoint(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y: %w", err)
	}

	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	eng, err := sc.Build()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tBX\tBY\t|B|")
	for _, entry := range eng.Entries() {
		bx, by := entry.Source.Field([]float64{x}, []float64{y})
		fmt.Fprintf(w, "%s\t%s\t%.6e\t%.6e\t%.6e\n",
			entry.ID[:8], kindOf(entry.Source), bx[0], by[0], math.Hypot(bx[0], by[0]))
	}
	bx, by := eng.At(x, y)
	fmt.Fprintf(w, "total\t\t%.6e\t%.6e\t%.6e\n", bx, by, math.Hypot(bx, by))
	return w.Flush()
}

func runProfile(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	eng, err := sc.Build()
	if err != nil {
		return err
	}

	var sweep grid.Range
	switch axis {
	case "x":
		sweep = sc.Grid.X
	case "y":
		sweep = sc.Grid.Y
	default:
		return fmt.Errorf("unknown axis: %s (want x or y)", axis)
	}
	if cmd.Flags().Changed("from") {
		sweep.Min = from
	}
	if cmd.Flags().Changed("to") {
		sweep.Max = to
	}
	if samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", samples)
	}

	ts := grid.Linspace(sweep, samples)
	fixed := make([]float64, samples)
	for i := range fixed {
		fixed[i] = at
	}
	xs, ys := ts, fixed
	if axis == "y" {
		xs, ys = fixed, ts
	}
	bx, by := eng.Field(xs, ys)

	data := make([]float64, samples)
	gaps := 0
	for i := range data {
		switch component {
		case "mag":
			data[i] = math.Hypot(bx[i], by[i])
		case "bx":
			data[i] = bx[i]
		case "by":
			data[i] = by[i]
		default:
			return fmt.Errorf("unknown component: %s (want mag, bx or by)", component)
		}
		if math.IsNaN(data[i]) || math.IsInf(data[i], 0) {
			data[i] = math.NaN()
			gaps++
		}
	}
	if gaps == samples {
		return fmt.Errorf("no finite samples along the profile")
	}
	if gaps > 0 {
		logger.Warn("profile crosses a winding edge", "gaps", gaps)
	}

	other := "x"
	if axis == "x" {
		other = "y"
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s [T] along %s from %g to %g at %s=%g", component, axis, sweep.Min, sweep.Max, other, at)),
	)
	fmt.Println(graph)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	sc, err := loadScene(cmd)
	if err != nil {
		return err
	}
	eng, err := sc.Build()
	if err != nil {
		return err
	}
	if seedsPerAxis < 1 {
		return fmt.Errorf("need at least one seed per axis, got %d", seedsPerAxis)
	}

	tr := fieldline.New(eng.At, fieldline.Bounds{X: sc.Grid.X, Y: sc.Grid.Y})
	tr.MaxSteps = maxSteps

	// keep seeds off the bounding box
	inset := func(r grid.Range) grid.Range {
		pad := r.Span() / float64(2*seedsPerAxis)
		return grid.Range{Min: r.Min + pad, Max: r.Max - pad}
	}
	seeds := fieldline.Seeds(inset(sc.Grid.X), inset(sc.Grid.Y), seedsPerAxis, seedsPerAxis)

	start := time.Now()
	lines, err := tr.TraceAll(cmd.Context(), seeds)
	if err != nil {
		return err
	}
	logger.Info("traced", "lines", len(lines), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED X\tSEED Y\tPOINTS\tLENGTH\tBACKWARD\tFORWARD")
	for _, line := range lines {
		fmt.Fprintf(w, "%.4f\t%.4f\t%d\t%.4f\t%s\t%s\n",
			line.Seed.X, line.Seed.Y, len(line.Points), line.Length(), line.Backward, line.Forward)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if svgPath == "" {
		return nil
	}
	f, err := os.Create(svgPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.FieldLinesSVG(f, lines, tr.Bounds, 800, 800); err != nil {
		return err
	}
	logger.Info("wrote svg", "path", svgPath)
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tRES\tSOURCES\tMAX |B|")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4e\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Grid.Resolution,
			len(run.Sources),
			run.Stats.MaxMag,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	sample, err := st.LoadSample(runID)
	if err != nil {
		return err
	}

	sc := &config.Scene{Name: meta.Scene, Grid: meta.Grid, Sources: meta.Sources}
	fmt.Printf("%s %s\n", label.Render("run:"), value.Render(meta.ID))
	fmt.Printf("%s %s\n\n", label.Render("time:"), value.Render(meta.Timestamp.Format("2006-01-02 15:04:05")))
	printStats(sc, meta.Stats)

	// |B| along the middle row of the mesh
	mag := sample.Magnitude()
	row := sample.Grid.Rows() / 2
	data := make([]float64, sample.Grid.Cols())
	for j := range data {
		data[j] = mag.At(row, j)
		if math.IsInf(data[j], 0) {
			data[j] = math.NaN()
		}
	}
	if len(data) < 2 {
		return nil
	}

	_, y := sample.Grid.Point(row, 0)
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("|B| [T] along x at y=%g", y)),
	)
	fmt.Printf("\n%s\n", graph)
	return nil
}

func kindOf(src field.Source) string {
	if k, ok := src.(field.Kinded); ok {
		return k.Kind()
	}
	return "source"
}
