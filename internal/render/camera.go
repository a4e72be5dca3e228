package render

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/march"
)

const (
	DefaultFOV  float32 = 75
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 1000

	// maxPitch keeps Orbit away from the poles where Up is parallel to the
	// view direction.
	maxPitch = math32.Pi/2 - 0.01
)

// Frustum holds the world positions of the near-plane corners in the order
// top-left, top-right, bottom-left, bottom-right.
type Frustum [4]mgl32.Vec3

func (fr Frustum) String() string {
	return fmt.Sprintf(
		"TL (%.3f, %.3f, %.3f) TR (%.3f, %.3f, %.3f) BL (%.3f, %.3f, %.3f) BR (%.3f, %.3f, %.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// Camera is a perspective pinhole. FOV is vertical, in degrees.
type Camera struct {
	Position mgl32.Vec3 `yaml:"position" json:"position"`
	Target   mgl32.Vec3 `yaml:"target" json:"target"`
	Up       mgl32.Vec3 `yaml:"up" json:"up"`
	FOV      float32    `yaml:"fov" json:"fov"`
}

// DefaultCamera sits at (0,0,3) looking at the origin.
func DefaultCamera() Camera {
	return Camera{
		Position: mgl32.Vec3{0, 0, 3},
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      DefaultFOV,
	}
}

func (c Camera) Validate() error {
	if !(c.FOV > 0 && c.FOV < 180) {
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrCamera, c.FOV)
	}
	dir := c.Target.Sub(c.Position)
	if dir.Len() < 1e-6 {
		return fmt.Errorf("%w: position equals target", ErrCamera)
	}
	if dir.Cross(c.Up).Len() < 1e-6 {
		return fmt.Errorf("%w: up is parallel to the view direction", ErrCamera)
	}
	return nil
}

func (c Camera) ViewProj(aspect float32) mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, DefaultNear, DefaultFar)
	view := mgl32.LookAtV(c.Position, c.Target, c.Up)
	return proj.Mul4(view)
}

// Frustum unprojects the clip-space near-plane corners through the inverse
// view-projection matrix.
func (c Camera) Frustum(aspect float32) Frustum {
	inv := c.ViewProj(aspect).Inv()
	corner := func(x, y float32) mgl32.Vec3 {
		v := inv.Mul4x1(mgl32.Vec4{x, y, -1, 1})
		return v.Vec3().Mul(1 / v[3])
	}
	return Frustum{corner(-1, 1), corner(1, 1), corner(-1, -1), corner(1, -1)}
}

// Orbit rotates the camera position around the target by yaw (around Up)
// and pitch (elevation), in radians. The distance to the target is kept.
func (c *Camera) Orbit(yaw, pitch float32) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}

	az := math32.Atan2(offset[0], offset[2]) + yaw
	el := math32.Asin(clampf(offset[1]/r, -1, 1)) + pitch
	el = clampf(el, -maxPitch, maxPitch)

	c.Position = c.Target.Add(mgl32.Vec3{
		r * math32.Cos(el) * math32.Sin(az),
		r * math32.Sin(el),
		r * math32.Cos(el) * math32.Cos(az),
	})
}

// RayGen builds primary rays for one resolution. It is immutable and safe
// for concurrent use.
type RayGen struct {
	origin        mgl32.Vec3
	frustum       Frustum
	width, height int
}

func (c Camera) RayGen(width, height int) RayGen {
	return RayGen{
		origin:  c.Position,
		frustum: c.Frustum(float32(width) / float32(height)),
		width:   width,
		height:  height,
	}
}

// PixelWorld is the near-plane position of the center of pixel (x, y), with
// y growing downward.
func (g RayGen) PixelWorld(x, y int) mgl32.Vec3 {
	u := (float32(x) + 0.5) / float32(g.width)
	v := (float32(y) + 0.5) / float32(g.height)
	fr := g.frustum
	top := fr[0].Add(fr[1].Sub(fr[0]).Mul(u))
	bottom := fr[2].Add(fr[3].Sub(fr[2]).Mul(u))
	return top.Add(bottom.Sub(top).Mul(v))
}

// Ray starts at the camera and passes through the pixel's world position.
func (g RayGen) Ray(x, y int) march.Ray {
	return march.NewRay(g.origin, g.PixelWorld(x, y))
}

func clampf(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
