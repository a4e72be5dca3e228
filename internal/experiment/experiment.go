// Package experiment assembles a render pipeline from a configuration.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/blobmarch/internal/compute"
	"github.com/san-kum/blobmarch/internal/config"
	"github.com/san-kum/blobmarch/internal/handles"
	"github.com/san-kum/blobmarch/internal/log"
	"github.com/san-kum/blobmarch/internal/render"
	"github.com/san-kum/blobmarch/internal/scene"
	"github.com/san-kum/blobmarch/internal/shade"
)

var logger = log.New("experiment")

// Experiment is one configured scene: primitives, the handles driving
// them, and the renderer that marches them.
type Experiment struct {
	cfg      *config.Config
	set      *scene.PrimitiveSet
	sync     *scene.FrameSync
	rig      *handles.Rig
	renderer *render.Renderer
}

// New validates cfg and builds every stage. The config is copied.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	s := cfg.Scene
	set, err := scene.NewGridPrimitiveSet(s.Width, s.Height, s.Length, s.Radius, cfg.Seed)
	if err != nil {
		return nil, err
	}
	fs, err := scene.NewFrameSync(set, s.SmoothFactor, s.Exposure)
	if err != nil {
		return nil, err
	}

	anim, err := handles.Get(cfg.Animator, cfg.Seed)
	if err != nil {
		return nil, err
	}
	rig := handles.NewRig(set.Centers(), anim)

	backend, err := compute.ByName(cfg.Backend)
	if err != nil {
		return nil, err
	}

	r, err := render.New(fs, cfg.Camera, render.Options{
		Width:   cfg.Output.Width,
		Height:  cfg.Output.Height,
		Params:  cfg.March,
		Mode:    shade.Mode(cfg.Shading),
		Backend: backend,
	})
	if err != nil {
		return nil, err
	}
	r.SetHandles(rig.Handles())
	r.SetAnimation(rig.Animate)

	logger.Infof("built scene: %d primitives, k=%.3f, animator=%s, backend=%s",
		set.Len(), s.SmoothFactor, anim.Name(), backend.Name())

	return &Experiment{cfg: cfg, set: set, sync: fs, rig: rig, renderer: r}, nil
}

// Run renders the configured frame count and passes each frame to fn.
func (e *Experiment) Run(ctx context.Context, fn func(*render.Frame) error) error {
	if e.renderer == nil {
		return fmt.Errorf("experiment not setup")
	}
	return e.renderer.RenderSequence(ctx, e.cfg.Output.Frames, e.cfg.Output.FPS, fn)
}

func (e *Experiment) Config() *config.Config     { return e.cfg }
func (e *Experiment) Set() *scene.PrimitiveSet   { return e.set }
func (e *Experiment) Sync() *scene.FrameSync     { return e.sync }
func (e *Experiment) Rig() *handles.Rig          { return e.rig }
func (e *Experiment) Renderer() *render.Renderer { return e.renderer }

// SetSmoothFactor changes k for subsequent frames and records it in the
// config.
func (e *Experiment) SetSmoothFactor(k float32) error {
	if err := e.sync.SetSmoothFactor(k); err != nil {
		return err
	}
	e.cfg.Scene.SmoothFactor = k
	return nil
}

// SetAnimator swaps the animator driving the rig.
func (e *Experiment) SetAnimator(name string) error {
	anim, err := handles.Get(name, e.cfg.Seed)
	if err != nil {
		return err
	}
	e.rig.SetAnimator(anim)
	e.cfg.Animator = name
	return nil
}
