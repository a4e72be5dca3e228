package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/san-kum/blobmarch/internal/compute"
	"github.com/san-kum/blobmarch/internal/log"
	"github.com/san-kum/blobmarch/internal/march"
	"github.com/san-kum/blobmarch/internal/metrics"
	"github.com/san-kum/blobmarch/internal/scene"
	"github.com/san-kum/blobmarch/internal/shade"
)

var logger = log.New("render")

type Options struct {
	Width   int
	Height  int
	Params  march.Params
	Mode    shade.Mode
	Backend compute.Backend // nil selects compute.GetBackend()
}

func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrImageSize, o.Width, o.Height)
	}
	if _, err := shade.ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return o.Params.Validate()
}

// Frame is one rendered image plus what it took to produce it.
type Frame struct {
	Index    int
	Time     float32
	Image    *image.NRGBA
	Stats    metrics.FrameStats
	Uniforms scene.Uniforms
	Elapsed  time.Duration
}

// Renderer owns the per-frame pipeline: sync handles, snapshot uniforms,
// then march every pixel against the snapshot.
type Renderer struct {
	opts    Options
	sync    *scene.FrameSync
	camera  Camera
	marcher *march.Marcher
	normals march.NormalEstimator
	handles []scene.Handle
	animate func(t float32)
	collect *metrics.Collector
}

func New(sync *scene.FrameSync, cam Camera, opts Options) (*Renderer, error) {
	if sync == nil {
		return nil, scene.ErrNoPrimitives
	}
	if opts.Mode == "" {
		opts.Mode = shade.ModeLit
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := cam.Validate(); err != nil {
		return nil, err
	}
	m, err := march.New(opts.Params)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		opts:    opts,
		sync:    sync,
		camera:  cam,
		marcher: m,
		normals: march.DefaultNormalEstimator(),
	}, nil
}

// SetHandles binds host handles in slot order. A nil slice leaves the
// primitive set untouched by Sync.
func (r *Renderer) SetHandles(h []scene.Handle) { r.handles = h }

// SetAnimation installs a callback run with the frame time before each
// sync. Animators use it to move their handles.
func (r *Renderer) SetAnimation(fn func(t float32)) { r.animate = fn }

// SetCollector attaches ray metrics. The collector is reset at the start
// of every frame, so after RenderFrame it holds that frame's values. Nil
// detaches it.
func (r *Renderer) SetCollector(c *metrics.Collector) { r.collect = c }

func (r *Renderer) Camera() *Camera         { return &r.camera }
func (r *Renderer) Sync() *scene.FrameSync  { return r.sync }
func (r *Renderer) Options() Options        { return r.opts }
func (r *Renderer) SetMode(mode shade.Mode) { r.opts.Mode = mode }

func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrImageSize, width, height)
	}
	r.opts.Width, r.opts.Height = width, height
	return nil
}

func (r *Renderer) backend() compute.Backend {
	if r.opts.Backend != nil {
		return r.opts.Backend
	}
	return compute.GetBackend()
}

// RenderFrame produces frame index at elapsed seconds. Sync completes before
// any ray is marched; every row reads the same immutable snapshot.
func (r *Renderer) RenderFrame(ctx context.Context, index int, elapsed float32) (*Frame, error) {
	start := time.Now()
	wrap := func(err error) error {
		return &FrameError{Frame: index, Time: elapsed, Wrapped: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, wrap(fmt.Errorf("%w: %w", ErrFrameCanceled, err))
	}

	if r.animate != nil {
		r.animate(elapsed)
	}
	if err := r.sync.Sync(scene.Input{
		Camera:  r.camera.Position,
		Handles: r.handles,
		Elapsed: elapsed,
	}); err != nil {
		return nil, wrap(err)
	}

	u := r.sync.Snapshot()
	field, err := u.Field()
	if err != nil {
		return nil, wrap(err)
	}

	w, h := r.opts.Width, r.opts.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	gen := r.camera.RayGen(w, h)
	shader := shade.NewShader(r.opts.Mode, u.CameraPos, u.Time)
	rowStats := make([]metrics.FrameStats, h)
	if r.collect != nil {
		r.collect.Reset()
	}

	err = r.backend().Dispatch(ctx, h, func(y0, y1 int) error {
		var states []march.MarchState
		if r.collect != nil {
			states = make([]march.MarchState, w)
		}
		for y := y0; y < y1; y++ {
			stats := &rowStats[y]
			for x := 0; x < w; x++ {
				hit, state := r.marcher.Trace(gen.Ray(x, y), field, nil)
				stats.Observe(state)
				if states != nil {
					states[x] = state
				}

				c := shader.Miss()
				if hit.Hit {
					c = shader.Hit(hit.Point, r.normals.Normal(hit.Point, field))
				}
				img.SetNRGBA(x, y, c.NRGBA())
			}
			if states != nil {
				r.collect.ObserveAll(states)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrFrameCanceled, err)
		}
		return nil, wrap(err)
	}

	var stats metrics.FrameStats
	for i := range rowStats {
		stats.Merge(rowStats[i])
	}

	f := &Frame{
		Index:    index,
		Time:     elapsed,
		Image:    img,
		Stats:    stats,
		Uniforms: u,
		Elapsed:  time.Since(start),
	}
	logger.Debugf("frame %d t=%.3f %dx%d hit=%.3f steps=%.1f in %v",
		index, elapsed, w, h, stats.HitRatio(), stats.MeanSteps(), f.Elapsed)
	return f, nil
}

// RenderSequence renders n frames at i/fps seconds and hands each to fn in
// order. It stops at the first error from either side.
func (r *Renderer) RenderSequence(ctx context.Context, n int, fps float32, fn func(*Frame) error) error {
	if fps <= 0 {
		return fmt.Errorf("render: fps must be positive, got %v", fps)
	}
	for i := 0; i < n; i++ {
		f, err := r.RenderFrame(ctx, i, float32(i)/fps)
		if err != nil {
			return err
		}
		if fn != nil {
			if err := fn(f); err != nil {
				return err
			}
		}
	}
	logger.Infof("rendered %d frames with %s backend", n, r.backend().Name())
	return nil
}
