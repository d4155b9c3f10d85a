package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/artplum/internal/config"
	"github.com/san-kum/artplum/internal/driver"
	"github.com/san-kum/artplum/internal/export"
	"github.com/san-kum/artplum/internal/gui"
	"github.com/san-kum/artplum/internal/metrics"
	"github.com/san-kum/artplum/internal/surface"
	"github.com/san-kum/artplum/internal/sweep"
	"github.com/san-kum/artplum/internal/viz"
)

var (
	pngOut     string
	svgOut     string
	jsonOut    string
	csvOut     string
	gifOut     string
	frameEvery int
	noMask     bool
	intro      bool
	gifPath    string
	backend    string
	planFile   string
	plan       sweep.Plan
	metricName string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "artplum",
		Short: "procedural plum-branch drawings",
		// Default to the terminal view when no command is given.
		RunE: runLive,
	}
	addCommonFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "grow a drawing headless and export it",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&pngOut, "png", "", "write the final frame as PNG")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the segments as SVG")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write run metadata and segments as JSON")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write the segments as CSV")
	runCmd.Flags().StringVar(&gifOut, "gif", "", "write the growth as an animated GIF")
	runCmd.Flags().IntVar(&frameEvery, "frame-every", 4, "ticks between GIF frames")
	runCmd.Flags().BoolVar(&noMask, "no-mask", false, "export the raw surface without the radial mask")
	runCmd.Flags().IntVar(&maxTicks, "max-ticks", config.DefaultMaxTicks, "stop after this many ticks (0: no limit)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the drawing grow in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&intro, "intro", false, "play the loader sequence first")
	liveCmd.Flags().StringVar(&gifPath, "gif", viz.DefaultGIFPath, "GIF recording path")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "watch the drawing grow in a native window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	windowCmd.Flags().StringVar(&backend, "backend", gui.BackendRaylib, fmt.Sprintf("window backend %v", gui.Backends()))

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot the pending queue of a headless run",
		Args:  cobra.NoArgs,
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&maxTicks, "max-ticks", config.DefaultMaxTicks, "stop after this many ticks (0: no limit)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grow ensembles of headless drawings across a parameter range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&planFile, "plan", "", "sweep plan file (yaml)")
	sweepCmd.Flags().StringVar(&plan.Param, "param", "old_rate", fmt.Sprintf("parameter to vary %v", sweep.ParamNames()))
	sweepCmd.Flags().Float64Var(&plan.Min, "min", 0.3, "first value")
	sweepCmd.Flags().Float64Var(&plan.Max, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&plan.Steps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&plan.Runs, "runs", 8, "drawings per value")
	sweepCmd.Flags().IntVar(&plan.Workers, "workers", 0, "concurrent drawings (0: one per CPU)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "segments", "metric to plot and rank by")
	sweepCmd.Flags().IntVar(&maxTicks, "max-ticks", config.DefaultMaxTicks, "tick limit per drawing (0: no limit)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets(cmd.OutOrStdout())
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config (or --preset) to path",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, windowCmd, plotCmd, sweepCmd, presetsCmd, configCmd)
	return rootCmd
}

// headless holds everything a headless run produces.
type headless struct {
	driver   *driver.Driver
	metrics  []metrics.Metric
	recorder *export.Recorder
	elapsed  time.Duration
	limited  bool
}

func growHeadless(cfg *config.Config, every int) (*headless, error) {
	h := &headless{metrics: metrics.Default()}

	opts := []driver.Option{driver.WithLogger(log.Default())}
	for _, m := range h.metrics {
		opts = append(opts, driver.WithObserver(m))
	}
	h.recorder = export.NewRecorder(every, func() image.Image { return h.frame() })
	opts = append(opts, driver.WithObserver(h.recorder))
	h.driver = driver.NewHeadless(cfg.DriverConfig(), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	err := h.driver.Drain(ctx, cfg.MaxTicks)
	h.elapsed = time.Since(start)

	switch {
	case errors.Is(err, driver.ErrTickLimit):
		h.limited = true
	case errors.Is(err, surface.ErrUnavailable):
		return nil, fmt.Errorf("no drawing surface for %gx%g: %w", cfg.Width, cfg.Height, err)
	case err != nil:
		return nil, err
	}
	return h, nil
}

func (h *headless) frame() image.Image {
	surf := h.driver.Surface()
	if surf == nil {
		return nil
	}
	if noMask {
		return surf.Image()
	}
	return surf.Composite(1)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup(cmd)
	defer done()
	if err != nil {
		return err
	}

	every := 0
	if gifOut != "" {
		every = frameEvery
	}

	fmt.Printf("growing %gx%g with seed %d...\n", cfg.Width, cfg.Height, cfg.Seed)
	h, err := growHeadless(cfg, every)
	if err != nil {
		return err
	}

	stats := h.driver.Stats()
	if h.limited {
		fmt.Printf("stopped at the %d tick limit\n", cfg.MaxTicks)
	}
	fmt.Printf("completed in %v\n", h.elapsed.Round(time.Millisecond))
	fmt.Printf("ticks: %d\n", stats.Ticks)
	fmt.Printf("lineages: %d\n", h.driver.Scheduler().Lineages())
	fmt.Println("\nmetrics:")
	values := metrics.Collect(h.metrics)
	for _, name := range metrics.Names(values) {
		fmt.Printf("  %s: %.4f\n", name, values[name])
	}

	segments := h.recorder.Segments()
	dcfg := cfg.DriverConfig()
	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{pngOut, func(w io.Writer) error { return export.PNG(w, h.frame()) }},
		{svgOut, func(w io.Writer) error {
			_, err := io.WriteString(w, export.SVG(segments, cfg.Width, cfg.Height, dcfg.Surface.Color, cfg.LineWidth))
			return err
		}},
		{jsonOut, func(w io.Writer) error {
			return export.JSON(w, export.NewDocument(h.driver, segments, values))
		}},
		{csvOut, func(w io.Writer) error { return export.CSV(w, segments) }},
		{gifOut, func(w io.Writer) error { return export.GIF(w, h.recorder.Frames(), gifDelay(cfg)) }},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFile(out.path, out.write); err != nil {
			return fmt.Errorf("write %s: %w", out.path, err)
		}
		fmt.Printf("wrote %s\n", out.path)
	}
	return nil
}

// gifDelay plays frames back at the speed they were grown, in 100ths of a
// second.
func gifDelay(cfg *config.Config) int {
	delay := int(cfg.Interval().Milliseconds()/10) * frameEvery
	if delay < 2 {
		delay = 2
	}
	return delay
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup(cmd)
	defer done()
	if err != nil {
		return err
	}

	viz.SetTheme(cfg.Theme)
	return viz.Run(cfg.HeroConfig(), viz.Options{
		Intro:   intro || cfg.Intro,
		GIFPath: gifPath,
		Logger:  log.Default(),
	})
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup(cmd)
	defer done()
	if err != nil {
		return err
	}
	return gui.Run(cfg.HeroConfig(), gui.Options{Backend: backend, Logger: log.Default()})
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup(cmd)
	defer done()
	if err != nil {
		return err
	}

	h, err := growHeadless(cfg, 0)
	if err != nil {
		return err
	}

	var history []float64
	for _, m := range h.metrics {
		if p, ok := m.(*metrics.PeakPending); ok {
			history = p.History()
		}
	}
	if len(history) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("seed: %d\n", cfg.Seed)
	fmt.Printf("ticks: %d\n\n", len(history))
	graph := asciigraph.Plot(history,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("pending steps per tick"),
	)
	fmt.Println(graph)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup(cmd)
	defer done()
	if err != nil {
		return err
	}

	p := plan
	if planFile != "" {
		loaded, err := sweep.LoadPlan(planFile)
		if err != nil {
			return fmt.Errorf("failed to load plan: %w", err)
		}
		p = *loaded
	}
	if p.MaxTicks == 0 {
		p.MaxTicks = cfg.MaxTicks
	}
	if p.SeedStart == 0 {
		p.SeedStart = cfg.Seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "sweeping %s over %v, %d drawings each...\n", p.Param, p.Values(), p.Runs)
	start := time.Now()
	points, err := sweep.Run(ctx, cfg.DriverConfig(), p)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "completed in %v\n\n", time.Since(start).Round(time.Millisecond))

	names := metrics.Names(points[0].Mean)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINISHED", strings.ToUpper(p.Param))
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(name))
	}
	fmt.Fprintln(w)
	for _, pt := range points {
		fmt.Fprintf(w, "%.4g\t%d/%d", pt.Value, pt.Finished, len(pt.Results))
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4g", pt.Mean[name])
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sweep.Best(points, metricName, true); ok {
		fmt.Fprintf(out, "\nlargest mean %s at %s=%.4g\n", metricName, p.Param, best.Value)
	}
	if len(points) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(sweep.Series(points, metricName),
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("mean %s by %s", metricName, p.Param)),
		))
	}
	return nil
}

func listPresets(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tYOUNG\tOLD\tTHRESHOLD")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%gx%g\t%.2f\t%.2f\t%d\n",
			name, p.Width, p.Height, p.Plum.YoungRate, p.Plum.OldRate, p.Plum.YoungThreshold)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
	}
	if _, err := os.Stat(args[0]); err == nil {
		return fmt.Errorf("%s already exists", args[0])
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
	return nil
}
