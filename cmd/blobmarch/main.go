package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/san-kum/blobmarch/internal/config"
	"github.com/san-kum/blobmarch/internal/log"
	"github.com/san-kum/blobmarch/internal/viz"
	"github.com/spf13/cobra"
)

var logger = log.New("blobmarch")

var (
	dataDir  string
	verbose  bool
	vverbose bool

	configFile string
	preset     string
	frames     int
	fps        float32
	width      int
	height     int
	smooth     float32
	animator   string
	shading    string
	backend    string
	seed       int64
	runName    string

	theme   string
	gifPath string
	logFile string
)

// main registers the commands and runs the preset picker when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "blobmarch",
		Short: "smooth-blended sphere tracer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case vverbose:
				log.SetLevel(log.Debug)
			case verbose:
				log.SetLevel(log.Info)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker(viz.Options{Theme: theme, GIFPath: gifPath, LogFile: logFile})
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".blobmarch", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "info logging")
	rootCmd.PersistentFlags().BoolVar(&vverbose, "vv", false, "debug logging")
	rootCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	rootCmd.Flags().StringVar(&gifPath, "gif", "blobmarch.gif", "gif output path")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file while the preview runs")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a frame sequence and store it as a run",
		RunE:  renderRun,
	}
	sceneFlags(renderCmd)
	renderCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	renderCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal preview",
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().StringVar(&gifPath, "gif", "blobmarch.gif", "gif output path")
	liveCmd.Flags().StringVar(&logFile, "log-file", "", "log file while the preview runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and its first frame",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&previewCols, "cols", 48, "preview width in cells")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-frame statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotPrimitive, "primitive", -1, "also plot the trajectory of this primitive")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		RunE:  listPresets,
	}

	shaderCmd := &cobra.Command{
		Use:   "shader",
		Short: "print the equivalent GLSL fragment shader",
		RunE:  printShader,
	}
	sceneFlags(shaderCmd)
	shaderCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the smooth factor and report march cost",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "default", "preset to sweep")
	sweepCmd.Flags().Float32Var(&sweepMin, "min", 0.05, "smallest smooth factor")
	sweepCmd.Flags().Float32Var(&sweepMax, "max", 1.5, "largest smooth factor")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of sweep points")
	sweepCmd.Flags().Float32Var(&sweepTime, "time", 0, "scene time to render")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw primitive trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "svg width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "svg height")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frame rendering per backend",
		RunE:  benchRender,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", 10, "frames per backend")

	rootCmd.AddCommand(renderCmd, liveCmd, listCmd, showCmd, plotCmd, presetsCmd, shaderCmd, scenarioCmd, sweepCmd, exportJSONCmd, exportSVGCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sceneFlags registers the flags that override config values.
func sceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float32Var(&fps, "fps", config.DefaultFPS, "frames per second")
	f.IntVar(&width, "width", config.DefaultWidth, "image width")
	f.IntVar(&height, "height", config.DefaultHeight, "image height")
	f.Float32Var(&smooth, "k", 0.5, "smooth union factor")
	f.StringVar(&animator, "animator", "orbit", "handle animator")
	f.StringVar(&shading, "shading", "lit", "shading mode (lit, flat)")
	f.StringVar(&backend, "backend", "auto", "dispatch backend (auto, cpu, serial)")
	f.Int64Var(&seed, "seed", 1, "random seed")
}

// loadConfig starts from the preset, overlays the config file on it, then
// applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Output.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.Output.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Output.Width = width
	}
	if flags.Changed("height") {
		cfg.Output.Height = height
	}
	if flags.Changed("k") {
		cfg.Scene.SmoothFactor = smooth
	}
	if flags.Changed("animator") {
		cfg.Animator = animator
	}
	if flags.Changed("shading") {
		cfg.Shading = shading
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

// signalContext is canceled on interrupt so partial runs still close.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(viz.Options{
		Config:     cfg,
		ConfigPath: configFile,
		Theme:      theme,
		GIFPath:    gifPath,
		LogFile:    logFile,
	})
}
