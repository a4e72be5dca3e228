package sdf

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultRadius is the radius shared by every sphere of a scene.
const DefaultRadius float32 = 0.3

// Sphere is one primitive of the field. Its identity is its slot index in
// the owning set.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// SphereSDF returns |p - c| - r.
func SphereSDF(p, c mgl32.Vec3, r float32) float32 {
	dx, dy, dz := p[0]-c[0], p[1]-c[1], p[2]-c[2]
	return math32.Sqrt(dx*dx+dy*dy+dz*dz) - r
}

// Distance is the signed distance from p to the sphere.
func (s Sphere) Distance(p mgl32.Vec3) float32 {
	return SphereSDF(p, s.Center, s.Radius)
}
