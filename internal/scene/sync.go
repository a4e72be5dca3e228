package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/sdf"
)

// Handle is a host-owned transform bound to one primitive slot. ok is false
// when the handle is not live this frame; its slot keeps the last position.
type Handle interface {
	WorldPosition() (pos mgl32.Vec3, ok bool)
}

// Input is everything the host supplies for one frame.
type Input struct {
	Camera  mgl32.Vec3
	Handles []Handle // slot order; nil entries are skipped
	Elapsed float32  // seconds since the first frame
}

// FrameSync is the single write path from host handles into a PrimitiveSet.
type FrameSync struct {
	set      *PrimitiveSet
	uniforms Uniforms
}

// NewFrameSync validates the shading knobs up front so that no frame can
// start with a bad configuration.
func NewFrameSync(set *PrimitiveSet, smoothFactor, exposure float32) (*FrameSync, error) {
	if set == nil || set.Len() == 0 {
		return nil, ErrNoPrimitives
	}
	if err := sdf.ValidateSmoothFactor(smoothFactor); err != nil {
		return nil, fmt.Errorf("%w: got %v", err, smoothFactor)
	}
	if err := ValidateExposure(exposure); err != nil {
		return nil, fmt.Errorf("%w: got %v", err, exposure)
	}
	f := &FrameSync{
		set: set,
		uniforms: Uniforms{
			SmoothFactor: smoothFactor,
			Exposure:     exposure,
			Primitives:   make([]Primitive, 0, set.Len()),
		},
	}
	f.uniforms.Primitives = set.AppendPrimitives(f.uniforms.Primitives)
	return f, nil
}

// Sync copies live handle positions into their slots, then rewrites time,
// camera and the primitive snapshot. Slots are last-writer-wins; there is
// exactly one handle per slot.
func (f *FrameSync) Sync(in Input) error {
	if in.Handles != nil && len(in.Handles) != f.set.Len() {
		return fmt.Errorf("%w: %d handles for %d slots", ErrHandleCount, len(in.Handles), f.set.Len())
	}

	for i, h := range in.Handles {
		if h == nil {
			continue
		}
		if pos, ok := h.WorldPosition(); ok {
			f.set.setCenter(i, pos)
		}
	}

	f.uniforms.Time = in.Elapsed
	f.uniforms.CameraPos = in.Camera
	f.uniforms.Primitives = f.set.AppendPrimitives(f.uniforms.Primitives[:0])
	return nil
}

// SetSmoothFactor changes k for subsequent frames.
func (f *FrameSync) SetSmoothFactor(k float32) error {
	if err := sdf.ValidateSmoothFactor(k); err != nil {
		return fmt.Errorf("%w: got %v", err, k)
	}
	f.uniforms.SmoothFactor = k
	return nil
}

// Snapshot returns an independent copy of the current uniforms.
func (f *FrameSync) Snapshot() Uniforms { return f.uniforms.Clone() }

// Set exposes the synchronized set for read access.
func (f *FrameSync) Set() *PrimitiveSet { return f.set }
