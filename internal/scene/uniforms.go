package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/sdf"
)

// DefaultExposure is carried for compatibility; no shading path reads it.
const DefaultExposure float32 = 0.1

// Uniforms is the frame-scoped input of the marcher. It is rewritten as a
// whole by every Sync.
type Uniforms struct {
	Time         float32
	SmoothFactor float32
	Exposure     float32
	CameraPos    mgl32.Vec3
	Primitives   []Primitive
}

// Clone deep-copies u so it can be handed to workers.
func (u Uniforms) Clone() Uniforms {
	c := u
	c.Primitives = make([]Primitive, len(u.Primitives))
	copy(c.Primitives, u.Primitives)
	return c
}

// Field builds the scene field for this snapshot.
func (u Uniforms) Field() (*sdf.SceneField, error) {
	return sdf.NewSceneField(u.Primitives, u.SmoothFactor)
}

// Equal reports bit-identical uniforms.
func (u Uniforms) Equal(o Uniforms) bool {
	if !bitsEqual(u.Time, o.Time) || !bitsEqual(u.SmoothFactor, o.SmoothFactor) ||
		!bitsEqual(u.Exposure, o.Exposure) || !vecBitsEqual(u.CameraPos, o.CameraPos) {
		return false
	}
	if len(u.Primitives) != len(o.Primitives) {
		return false
	}
	for i := range u.Primitives {
		if !vecBitsEqual(u.Primitives[i].Center, o.Primitives[i].Center) ||
			!bitsEqual(u.Primitives[i].Radius, o.Primitives[i].Radius) {
			return false
		}
	}
	return true
}

// ValidateExposure rejects exposures outside (0, 1].
func ValidateExposure(e float32) error {
	if math32.IsNaN(e) || e <= 0 || e > 1 {
		return ErrExposure
	}
	return nil
}

func bitsEqual(a, b float32) bool { return math32.Float32bits(a) == math32.Float32bits(b) }

func vecBitsEqual(a, b mgl32.Vec3) bool {
	return bitsEqual(a[0], b[0]) && bitsEqual(a[1], b[1]) && bitsEqual(a[2], b[2])
}
