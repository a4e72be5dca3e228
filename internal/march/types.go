package march

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay points from origin through target. A target equal to origin
// yields a zero direction, which Trace reports as an escaped miss.
func NewRay(origin, target mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: normalizeOrZero(target.Sub(origin))}
}

// At returns origin + direction*t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// HitResult is the outcome of one march. When Hit is false the other
// fields are zero.
type HitResult struct {
	Hit      bool
	Point    mgl32.Vec3
	Distance float32
}

// Outcome records why a march stopped.
type Outcome uint8

const (
	OutcomeHit Outcome = iota
	OutcomeEscaped
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeEscaped:
		return "escaped"
	case OutcomeExhausted:
		return "exhausted"
	}
	return "unknown"
}

// MarchState is local to one march. Distance never decreases from one step
// to the next.
type MarchState struct {
	Distance float32
	Steps    uint32
	Outcome  Outcome
}

// Observer sees every field sample of a march. sdf is the distance found
// at state.Distance along the ray, before the step is taken.
type Observer interface {
	OnStep(state MarchState, sdf float32)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(state MarchState, sdf float32)

func (f ObserverFunc) OnStep(state MarchState, sdf float32) { f(state, sdf) }

func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if !(l > 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
