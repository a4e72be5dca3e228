package sdf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Field is anything that can report a signed distance.
type Field interface {
	Distance(p mgl32.Vec3) float32
}

// FieldFunc adapts a function to the Field interface.
type FieldFunc func(p mgl32.Vec3) float32

func (f FieldFunc) Distance(p mgl32.Vec3) float32 { return f(p) }

// SceneField is the smooth union of an ordered set of spheres.
type SceneField struct {
	spheres []Sphere
	k       float32
}

// NewSceneField copies spheres and validates the blend radius. The copy keeps
// the field stable while the caller keeps mutating its own slice.
func NewSceneField(spheres []Sphere, k float32) (*SceneField, error) {
	if len(spheres) == 0 {
		return nil, ErrNoSpheres
	}
	if err := ValidateSmoothFactor(k); err != nil {
		return nil, fmt.Errorf("%w: got %v", err, k)
	}
	for i, s := range spheres {
		if !(s.Radius > 0) {
			return nil, fmt.Errorf("%w: slot %d has radius %v", ErrRadius, i, s.Radius)
		}
	}
	cp := make([]Sphere, len(spheres))
	copy(cp, spheres)
	return &SceneField{spheres: cp, k: k}, nil
}

// Distance folds SmoothMin over the spheres in slot order. Cost is O(N).
func (f *SceneField) Distance(p mgl32.Vec3) float32 {
	d := f.spheres[0].Distance(p)
	for _, s := range f.spheres[1:] {
		d = SmoothMin(d, s.Distance(p), f.k)
	}
	return d
}

func (f *SceneField) SmoothFactor() float32 { return f.k }
func (f *SceneField) Len() int              { return len(f.spheres) }
