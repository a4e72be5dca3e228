package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/san-kum/blobmarch/internal/automation"
	"github.com/san-kum/blobmarch/internal/compute"
	"github.com/san-kum/blobmarch/internal/config"
	"github.com/san-kum/blobmarch/internal/experiment"
	"github.com/san-kum/blobmarch/internal/export"
	"github.com/san-kum/blobmarch/internal/glsl"
	"github.com/san-kum/blobmarch/internal/render"
	"github.com/san-kum/blobmarch/internal/shade"
	"github.com/san-kum/blobmarch/internal/storage"
	"github.com/san-kum/blobmarch/internal/viz"
	"github.com/spf13/cobra"
)

var (
	previewCols   int
	plotPrimitive int
	outFile       string
	svgWidth      int
	svgHeight     int

	sweepMin   float32
	sweepMax   float32
	sweepSteps int
	sweepTime  float32
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

// output returns stdout, or the --out file when one was given.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	name := runName
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "run"
	}
	run, err := st.Create(name, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("rendering %d frames at %dx%d...\n", cfg.Output.Frames, cfg.Output.Width, cfg.Output.Height)
	start := time.Now()
	runErr := exp.Run(ctx, func(f *render.Frame) error {
		logger.Debugf("frame %d: %.2fms hit=%.3f", f.Index, float64(f.Elapsed.Microseconds())/1000, f.Stats.HitRatio())
		return run.Add(f)
	})
	if err := run.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	meta, err := st.Load(run.ID())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("run id: %s\n", run.ID())
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, meta.Metrics[name])
	}
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

	table := newTable(os.Stdout, "ID", "TIME", "BLOBS", "K", "ANIMATOR", "FRAMES", "MS/FRAME", "HIT")
	for _, run := range runs {
		k, anim := "-", "-"
		if run.Config != nil {
			k = fmt.Sprintf("%.2f", run.Config.Scene.SmoothFactor)
			anim = run.Config.Animator
		}
		table.Append([]string{
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", run.Primitives),
			k,
			anim,
			fmt.Sprintf("%d", run.Frames),
			fmt.Sprintf("%.2f", run.Metrics["frame_ms"]),
			fmt.Sprintf("%.3f", run.Metrics["hit_ratio"]),
		})
	}
	table.Render()
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("time: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("primitives: %d\n", meta.Primitives)
	fmt.Printf("frames: %d (%.1fms total)\n\n", meta.Frames, meta.TotalMS)

	table := newTable(os.Stdout, "METRIC", "VALUE")
	for _, name := range sortedKeys(meta.Metrics) {
		table.Append([]string{name, fmt.Sprintf("%.6f", meta.Metrics[name])})
	}
	table.Render()

	if meta.Frames == 0 || len(meta.FrameStats) == 0 || previewCols <= 0 {
		return nil
	}
	img, err := st.LoadFrame(runID, meta.FrameStats[0].Index)
	if err != nil {
		return err
	}
	b := img.Bounds()
	rows := max(previewCols*b.Dy()/b.Dx()/2, 1)
	fmt.Println()
	fmt.Println(viz.HalfBlock(viz.Fit(img, previewCols, rows), viz.ThemeMinimal.Backdrop))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if len(meta.FrameStats) == 0 {
		return fmt.Errorf("no data to plot")
	}

	n := len(meta.FrameStats)
	ms := make([]float64, n)
	hit := make([]float64, n)
	steps := make([]float64, n)
	for i, fr := range meta.FrameStats {
		ms[i] = fr.ElapsedMS
		hit[i] = fr.Stats.HitRatio()
		steps[i] = fr.Stats.MeanSteps()
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", n)

	plots := []struct {
		caption string
		data    []float64
		color   asciigraph.AnsiColor
	}{
		{"frame time (ms)", ms, asciigraph.DeepSkyBlue},
		{"hit ratio", hit, asciigraph.Green},
		{"mean steps per ray", steps, asciigraph.Coral},
	}
	for _, p := range plots {
		fmt.Println(asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(p.color),
			asciigraph.Caption(p.caption),
		))
		fmt.Println()
	}

	if plotPrimitive < 0 {
		return nil
	}
	_, centers, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(centers) == 0 || plotPrimitive >= len(centers[0]) {
		return fmt.Errorf("primitive %d out of range", plotPrimitive)
	}
	axes := make([][]float64, 3)
	for _, row := range centers {
		for a := range axes {
			axes[a] = append(axes[a], float64(row[plotPrimitive][a]))
		}
	}
	fmt.Println(asciigraph.PlotMany(axes,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Coral, asciigraph.Green, asciigraph.DeepSkyBlue),
		asciigraph.SeriesLegends("x", "y", "z"),
		asciigraph.Caption(fmt.Sprintf("primitive %d center", plotPrimitive)),
	))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	table := newTable(os.Stdout, "PRESET", "GRID", "RADIUS", "K", "ANIMATOR", "MAX STEPS")
	for _, name := range config.ListPresets() {
		cfg := config.Presets[name]
		s := cfg.Scene
		table.Append([]string{
			name,
			fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Length),
			fmt.Sprintf("%.2f", s.Radius),
			fmt.Sprintf("%.2f", s.SmoothFactor),
			cfg.Animator,
			fmt.Sprintf("%d", cfg.March.MaxSteps),
		})
	}
	table.Render()
	return nil
}

func printShader(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	err = glsl.Write(w, glsl.Options{
		Count:  cfg.PrimitiveCount(),
		Radius: cfg.Scene.Radius,
		Params: cfg.March,
		Mode:   shade.Mode(cfg.Shading),
	})
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	return err
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, storage.New(dataDir))

	table := newTable(os.Stdout, "STEP", "RUN", "FRAMES", "MS/FRAME", "HIT", "STEPS")
	for _, r := range results {
		table.Append([]string{
			fmt.Sprintf("%d", r.Step),
			r.RunID,
			fmt.Sprintf("%d", r.Frames),
			fmt.Sprintf("%.2f", r.Metrics["frame_ms"]),
			fmt.Sprintf("%.3f", r.Metrics["hit_ratio"]),
			fmt.Sprintf("%.2f", r.Metrics["mean_steps"]),
		})
	}
	table.Render()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.SmoothSweep{
		Preset:   preset,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Time:     sweepTime,
	})
	if err != nil {
		return err
	}

	table := newTable(os.Stdout, "K", "HIT", "MEAN STEPS", "EXHAUSTED", "MS")
	steps := make([]float64, len(results))
	for i, r := range results {
		steps[i] = r.MeanSteps
		table.Append([]string{
			fmt.Sprintf("%.3f", r.SmoothFactor),
			fmt.Sprintf("%.3f", r.HitRatio),
			fmt.Sprintf("%.2f", r.MeanSteps),
			fmt.Sprintf("%.4f", r.Exhausted),
			fmt.Sprintf("%.2f", r.FrameMS),
		})
	}
	table.Render()
	fmt.Println()
	fmt.Println(asciigraph.Plot(steps, asciigraph.Height(8), asciigraph.Caption("mean steps vs k")))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	err = storage.New(dataDir).ExportJSON(args[0], w)
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	return err
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, centers, err := storage.New(dataDir).LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	err = export.TrajectoriesSVG(w, centers, svgWidth, svgHeight)
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	return err
}

func benchRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}

	backends := []string{"serial", "cpu"}
	if cmd.Flags().Changed("backend") {
		backends = []string{cfg.Backend}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %d blobs at %dx%d, %d frames\n\n", cfg.PrimitiveCount(), cfg.Output.Width, cfg.Output.Height, frames)
	table := newTable(os.Stdout, "BACKEND", "WORKERS", "MS/FRAME", "MRAYS/S", "MEAN STEPS")
	for _, name := range backends {
		c := cfg.Clone()
		c.Backend = name
		exp, err := experiment.New(c)
		if err != nil {
			return err
		}

		var steps float64
		start := time.Now()
		for i := 0; i < frames; i++ {
			f, err := exp.Renderer().RenderFrame(ctx, i, float32(i)/c.Output.FPS)
			if err != nil {
				return err
			}
			steps += f.Stats.MeanSteps()
		}
		elapsed := time.Since(start)

		rays := float64(c.Output.Width * c.Output.Height * frames)
		workers := "1"
		if cpu, ok := exp.Renderer().Options().Backend.(*compute.CPUBackend); ok {
			workers = fmt.Sprintf("%d", cpu.Workers())
		}
		table.Append([]string{
			exp.Renderer().Options().Backend.Name(),
			workers,
			fmt.Sprintf("%.2f", elapsed.Seconds()*1000/float64(frames)),
			fmt.Sprintf("%.2f", rays/elapsed.Seconds()/1e6),
			fmt.Sprintf("%.2f", steps/float64(frames)),
		})
	}
	table.Render()
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
