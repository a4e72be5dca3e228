package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/blobmarch/internal/config"
	"github.com/san-kum/blobmarch/internal/experiment"
	"github.com/san-kum/blobmarch/internal/log"
	"github.com/san-kum/blobmarch/internal/metrics"
	"github.com/san-kum/blobmarch/internal/render"
	"github.com/san-kum/blobmarch/internal/sdf"
	"github.com/san-kum/blobmarch/internal/storage"
	"gopkg.in/yaml.v3"
)

var logger = log.New("automation")

// Scenario defines a scripted sequence of renders
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single render in a scenario. Zero fields keep the
// preset's value.
type ScenarioStep struct {
	Preset       string  `yaml:"preset"`
	Animator     string  `yaml:"animator"`
	Shading      string  `yaml:"shading"`
	Frames       int     `yaml:"frames"`
	FPS          float32 `yaml:"fps"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	SmoothFactor float32 `yaml:"smooth_factor"`
	Seed         int64   `yaml:"seed"`
	SaveAs       string  `yaml:"save_as"`
}

// StepResult summarizes one stored step.
type StepResult struct {
	Step    int
	RunID   string
	Frames  int
	Metrics map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Animator != "" {
		cfg.Animator = s.Animator
	}
	if s.Shading != "" {
		cfg.Shading = s.Shading
	}
	if s.Frames != 0 {
		cfg.Output.Frames = s.Frames
	}
	if s.FPS != 0 {
		cfg.Output.FPS = s.FPS
	}
	if s.Width != 0 {
		cfg.Output.Width = s.Width
	}
	if s.Height != 0 {
		cfg.Output.Height = s.Height
	}
	if s.SmoothFactor != 0 {
		cfg.Scene.SmoothFactor = s.SmoothFactor
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order, storing each as a run.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Noticef("running step %d/%d: %s", i+1, len(scenario.Steps), step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_step%d", scenario.Name, i+1)
		}
		run, err := store.Create(name, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		runErr := exp.Run(ctx, run.Add)
		if err := run.Close(); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, runErr)
		}

		meta, err := store.Load(run.ID())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, StepResult{
			Step:    i + 1,
			RunID:   run.ID(),
			Frames:  meta.Frames,
			Metrics: meta.Metrics,
		})
	}

	return results, nil
}

// SmoothSweep renders one frame per smooth factor in [Min, Max]
type SmoothSweep struct {
	Preset   string
	Min      float32
	Max      float32
	NumSteps int
	Time     float32
}

// SweepResult holds the march statistics of one sweep point
type SweepResult struct {
	SmoothFactor float32
	HitRatio     float64
	MeanSteps    float64
	Exhausted    float64
	FrameMS      float64
}

// SweepPoints returns NumSteps smooth factors evenly spaced over
// [Min, Max]. The last point is exactly Max.
func (s *SmoothSweep) SweepPoints() ([]float32, error) {
	if s.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", s.NumSteps)
	}
	if !(s.Min > 0) || !(s.Min <= s.Max) || s.Max > sdf.MaxSmoothFactor {
		return nil, fmt.Errorf("%w: sweep range [%v, %v] outside (0, %v]", sdf.ErrSmoothFactor, s.Min, s.Max, sdf.MaxSmoothFactor)
	}
	points := make([]float32, s.NumSteps)
	last := float32(s.NumSteps - 1)
	for i := range points {
		k := s.Min + (s.Max-s.Min)*float32(i)/last
		points[i] = min(max(k, s.Min), s.Max)
	}
	points[len(points)-1] = s.Max
	return points, nil
}

// RunSweep renders the preset at each smooth factor. Larger factors widen
// the blend and usually cost more steps per ray near the surface. On error
// the points rendered so far are returned with it.
func RunSweep(ctx context.Context, sweep *SmoothSweep) ([]SweepResult, error) {
	points, err := sweep.SweepPoints()
	if err != nil {
		return nil, err
	}
	name := sweep.Preset
	if name == "" {
		name = "default"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return nil, err
	}
	collector := metrics.NewCollector()
	exp.Renderer().SetCollector(collector)

	results := make([]SweepResult, 0, len(points))
	for i, k := range points {
		if err := exp.SetSmoothFactor(k); err != nil {
			return results, fmt.Errorf("sweep point %d: %w", i+1, err)
		}

		f, err := exp.Renderer().RenderFrame(ctx, i, sweep.Time)
		if err != nil {
			return results, err
		}

		r := sweepResult(k, f, collector.Values())
		results = append(results, r)
		logger.Infof("sweep %d/%d: k=%.4f hit=%.3f steps=%.2f", i+1, len(points), k, r.HitRatio, r.MeanSteps)
	}

	return results, nil
}

func sweepResult(k float32, f *render.Frame, v map[string]float64) SweepResult {
	return SweepResult{
		SmoothFactor: k,
		HitRatio:     v["hit_ratio"],
		MeanSteps:    v["mean_steps"],
		Exhausted:    v["exhausted"],
		FrameMS:      float64(f.Elapsed.Microseconds()) / 1000,
	}
}
