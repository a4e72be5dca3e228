package march

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/sdf"
)

const (
	DefaultNormalEpsilon float32 = 0.01

	// gradients shorter than this are treated as degenerate
	minGradient float32 = 1e-8
)

// FallbackNormal is returned where the field has no usable gradient.
var FallbackNormal = mgl32.Vec3{0, 1, 0}

// NormalEstimator takes central differences of a field along each axis.
type NormalEstimator struct {
	Epsilon  float32
	Fallback mgl32.Vec3
}

func DefaultNormalEstimator() NormalEstimator {
	return NormalEstimator{Epsilon: DefaultNormalEpsilon, Fallback: FallbackNormal}
}

// Normal returns the unit gradient of field at p. It costs six field
// evaluations. Zero or non-finite gradients (saddles deep inside
// overlapping spheres) return Fallback.
func (e NormalEstimator) Normal(p mgl32.Vec3, field sdf.Field) mgl32.Vec3 {
	eps := e.Epsilon
	if !(eps > 0) {
		eps = DefaultNormalEpsilon
	}
	dx := mgl32.Vec3{eps, 0, 0}
	dy := mgl32.Vec3{0, eps, 0}
	dz := mgl32.Vec3{0, 0, eps}

	g := mgl32.Vec3{
		field.Distance(p.Add(dx)) - field.Distance(p.Sub(dx)),
		field.Distance(p.Add(dy)) - field.Distance(p.Sub(dy)),
		field.Distance(p.Add(dz)) - field.Distance(p.Sub(dz)),
	}

	l := g.Len()
	if !(l > minGradient) || math32.IsInf(l, 0) {
		return e.Fallback
	}
	return g.Mul(1 / l)
}
