package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/blobmarch/internal/sdf"
	"github.com/san-kum/blobmarch/internal/storage"
)

const scenarioYAML = `name: demo
description: two small renders
steps:
  - preset: single
    frames: 2
    width: 12
    height: 8
    save_as: single
  - preset: pair
    animator: breathe
    shading: flat
    frames: 3
    width: 10
    height: 10
    smooth_factor: 1.2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 2 {
		t.Fatalf("scenario: %+v", sc)
	}
	if sc.Steps[1].SmoothFactor != 1.2 || sc.Steps[1].Animator != "breathe" {
		t.Errorf("step 2: %+v", sc.Steps[1])
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := ScenarioStep{Preset: "pair", Frames: 4, SmoothFactor: 0.9}.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Frames != 4 || cfg.Scene.SmoothFactor != 0.9 || cfg.PrimitiveCount() != 2 {
		t.Errorf("config: %+v", cfg)
	}

	if _, err := (ScenarioStep{Preset: "nope"}).Config(); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := (ScenarioStep{SmoothFactor: 5}).Config(); err == nil {
		t.Error("expected validation error")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, st)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Frames != 2 || results[1].Frames != 3 {
		t.Errorf("frames: %d %d", results[0].Frames, results[1].Frames)
	}

	meta, err := st.Load(results[1].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Name != "demo_step2" || meta.Config.Shading != "flat" {
		t.Errorf("metadata: name %s shading %s", meta.Name, meta.Config.Shading)
	}

	runs, err := st.List()
	if err != nil || len(runs) != 2 {
		t.Errorf("stored runs: %d %v", len(runs), err)
	}
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &SmoothSweep{Preset: "pair", Min: 0.1, Max: 1.1, NumSteps: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].SmoothFactor != 0.1 || results[2].SmoothFactor < 1.09 {
		t.Errorf("sweep range: %v .. %v", results[0].SmoothFactor, results[2].SmoothFactor)
	}

	if _, err := RunSweep(context.Background(), &SmoothSweep{NumSteps: 1}); err == nil {
		t.Error("expected error for single-step sweep")
	}
}

func TestSweepPoints(t *testing.T) {
	tests := []struct {
		name  string
		sweep SmoothSweep
	}{
		{"full range", SmoothSweep{Min: 0.05, Max: 2, NumSteps: 61}},
		{"62 steps", SmoothSweep{Min: 0.05, Max: 2, NumSteps: 62}},
		{"110 steps", SmoothSweep{Min: 0.05, Max: 2, NumSteps: 110}},
		{"flat", SmoothSweep{Min: 0.5, Max: 0.5, NumSteps: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := tt.sweep.SweepPoints()
			if err != nil {
				t.Fatal(err)
			}
			if len(points) != tt.sweep.NumSteps {
				t.Fatalf("got %d points", len(points))
			}
			if points[0] != tt.sweep.Min || points[len(points)-1] != tt.sweep.Max {
				t.Errorf("endpoints %v .. %v", points[0], points[len(points)-1])
			}
			for i, k := range points {
				if err := sdf.ValidateSmoothFactor(k); err != nil {
					t.Errorf("point %d = %v rejected", i, k)
				}
				if i > 0 && k < points[i-1] {
					t.Errorf("point %d = %v below previous %v", i, k, points[i-1])
				}
			}
		})
	}
}

func TestSweepRejectsRange(t *testing.T) {
	tests := []struct {
		name  string
		sweep SmoothSweep
	}{
		{"zero min", SmoothSweep{Min: 0, Max: 1, NumSteps: 3}},
		{"inverted", SmoothSweep{Min: 1, Max: 0.5, NumSteps: 3}},
		{"above max", SmoothSweep{Min: 0.1, Max: 2.5, NumSteps: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := RunSweep(context.Background(), &tt.sweep)
			if !errors.Is(err, sdf.ErrSmoothFactor) {
				t.Errorf("err = %v, want ErrSmoothFactor", err)
			}
			if len(results) != 0 {
				t.Errorf("rendered %d points before rejecting", len(results))
			}
		})
	}
}

func TestRunSweepToMaxSmoothFactor(t *testing.T) {
	results, err := RunSweep(context.Background(), &SmoothSweep{Preset: "single", Min: 0.05, Max: 2, NumSteps: 61})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 61 {
		t.Fatalf("got %d results", len(results))
	}
	if last := results[60].SmoothFactor; last != sdf.MaxSmoothFactor {
		t.Errorf("last point = %v", last)
	}
	for _, r := range results {
		if r.HitRatio <= 0 || r.MeanSteps <= 0 {
			t.Fatalf("k=%v: empty metrics %+v", r.SmoothFactor, r)
		}
	}
}
