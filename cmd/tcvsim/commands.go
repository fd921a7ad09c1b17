package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tcvsim/internal/analysis"
	"github.com/san-kum/tcvsim/internal/config"
	"github.com/san-kum/tcvsim/internal/export"
	"github.com/san-kum/tcvsim/internal/metrics"
	"github.com/san-kum/tcvsim/internal/sim"
	"github.com/san-kum/tcvsim/internal/storage"
	"github.com/san-kum/tcvsim/internal/stream"
	"github.com/san-kum/tcvsim/internal/tui"
	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	world, err := sc.Build()
	if err != nil {
		return err
	}

	simulator := sim.New(world).WithLogger(slog.Default())
	for _, m := range metrics.Defaults(sc.Bounds, sc.ForceFree()) {
		simulator.AddMetric(m)
	}

	ctx, stop := signalContext()
	defer stop()

	result, err := simulator.Run(ctx, sc.SimConfig())
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(sc, result)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("scenario: %s  particles: %d  steps: %d\n", sc.Name, world.Len(), result.StepsTaken)
	if n := len(result.Errors); n > 0 {
		fmt.Printf("step errors: %d (first: %v)\n", n, result.Errors[0])
	}
	fmt.Println()

	return printMetrics(os.Stdout, result.Metrics)
}

func printMetrics(out io.Writer, m map[string]float64) error {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6f\n", name, m[name])
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tJITTER\tPARTICLES\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.2f\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Jitter,
			run.Particles,
			run.Steps,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(frames))

	if showPath {
		paths := make([]*analysis.Path, 0, meta.Particles)
		for id := 0; id < meta.Particles; id++ {
			paths = append(paths, analysis.TracePath(frames, id))
		}
		fmt.Print(analysis.PathToASCII(paths, 80, 24))
		return nil
	}

	path := analysis.TracePath(frames, particleID)
	if len(path.Points) == 0 {
		return fmt.Errorf("particle %d not in run %s", particleID, meta.ID)
	}

	xs := make([]float64, len(path.Points))
	ys := make([]float64, len(path.Points))
	for i, p := range path.Points {
		xs[i], ys[i] = p.X, p.Y
	}

	series := []struct {
		caption string
		data    []float64
	}{
		{fmt.Sprintf("particle %d x", particleID), xs},
		{fmt.Sprintf("particle %d y", particleID), ys},
		{fmt.Sprintf("particle %d speed", particleID), analysis.Speeds(frames, particleID)},
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tN\tMEAN\tSTDDEV\tMIN\tMEDIAN\tMAX")
	row := func(name string, s analysis.Summary) {
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			name, s.Count, s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	}

	for id := 0; id < meta.Particles; id++ {
		row(fmt.Sprintf("speed[%d]", id), analysis.Summarize(analysis.Speeds(frames, id)))
		row(fmt.Sprintf("displacement[%d]", id), analysis.Summarize(analysis.Displacements(frames, id)))
	}
	row("correction", analysis.Summarize(analysis.Corrections(frames)))

	energy := make([]float64, len(frames))
	for i, f := range frames {
		energy[i] = metrics.FrameEnergy(f)
	}
	row("kinetic_energy", analysis.Summarize(energy))

	if err := w.Flush(); err != nil {
		return err
	}

	if len(meta.Errors) > 0 {
		fmt.Printf("\nstep errors: %d\n", len(meta.Errors))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, nil)
}

func exportRunJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, meta, frames)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := storage.ExportJSON(f, meta, frames); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", len(frames), outFile)
	return nil
}

func exportRunSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	sc, err := storage.New(dataDir).LoadScenario(meta.ID)
	if err != nil {
		return err
	}

	paths := make([]*analysis.Path, 0, meta.Particles)
	for id := 0; id < meta.Particles; id++ {
		paths = append(paths, analysis.TracePath(frames, id))
	}
	svg := export.PathsToSVG(paths, sc.Bounds, 800, 600)

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDT\tDURATION\tJITTER\tPARTICLES\tSOURCES\tBOUNDS")
	for _, name := range config.ListPresets() {
		sc := config.GetPreset(name)
		bounds := "-"
		if b := sc.Bounds; b != nil {
			bounds = fmt.Sprintf("[%g,%g]x[%g,%g]", b.Left, b.Right, b.Top, b.Bottom)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.1fs\t%.2f\t%d\t%d\t%s\n",
			name, sc.Dt, sc.Duration, sc.Jitter, len(sc.Particles), len(sc.Sources), bounds)
	}
	return w.Flush()
}

func writePreset(cmd *cobra.Command, args []string) error {
	sc := config.GetPreset(args[0])
	if sc == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if err := config.Save(args[1], sc); err != nil {
		return err
	}
	fmt.Printf("wrote %s to %s\n", args[0], args[1])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	return tui.Run(sc)
}

func runServe(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	return stream.NewServer(sc, frameRate, slog.Default()).ListenAndServe(ctx, addr)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	ens := sim.NewEnsemble(
		sc.Build,
		func() []sim.Metric { return metrics.Defaults(sc.Bounds, sc.ForceFree()) },
		numRuns,
		sc.Seed,
	)

	ctx, stop := signalContext()
	defer stop()

	results, err := ens.Run(ctx, sc.SimConfig())
	if err != nil {
		return fmt.Errorf("ensemble failed: %w", err)
	}

	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("ensemble: %s  runs: %d  seeds: %d..%d\n\n", sc.Name, numRuns, sc.Seed, sc.Seed+int64(numRuns)-1)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, name := range names {
		s := analysis.Summarize(values[name])
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", name, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}
