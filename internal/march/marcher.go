package march

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/sdf"
)

const (
	DefaultMaxDistance float32 = 100.0
	DefaultMinDistance float32 = 0.01
	DefaultMaxSteps    uint32  = 100
)

// Params bounds a march. MinDistance is both the starting offset along the
// ray and the hit threshold.
type Params struct {
	MaxDistance float32 `yaml:"max_distance" json:"max_distance"`
	MinDistance float32 `yaml:"min_distance" json:"min_distance"`
	MaxSteps    uint32  `yaml:"max_steps" json:"max_steps"`
}

func DefaultParams() Params {
	return Params{
		MaxDistance: DefaultMaxDistance,
		MinDistance: DefaultMinDistance,
		MaxSteps:    DefaultMaxSteps,
	}
}

// Validate rejects parameters that cannot make progress.
func (p Params) Validate() error {
	if !(p.MinDistance > 0) {
		return fmt.Errorf("%w: min distance must be positive, got %v", ErrParams, p.MinDistance)
	}
	if !(p.MaxDistance > p.MinDistance) {
		return fmt.Errorf("%w: max distance %v must exceed min distance %v", ErrParams, p.MaxDistance, p.MinDistance)
	}
	if p.MaxSteps == 0 {
		return fmt.Errorf("%w: max steps must be positive", ErrParams)
	}
	return nil
}

// Marcher sphere-traces rays through a field.
type Marcher struct {
	params Params
}

func New(p Params) (*Marcher, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Marcher{params: p}, nil
}

func (m *Marcher) Params() Params { return m.params }

// March walks ray through field and returns the first point closer than
// MinDistance to the surface.
func (m *Marcher) March(ray Ray, field sdf.Field) HitResult {
	hit, _ := m.Trace(ray, field, nil)
	return hit
}

// Trace is March with the final state and an optional per-step observer.
//
// The hit point is the sample position itself, not corrected for the
// remaining sdf. Misses come from either escaping past MaxDistance or
// running out of steps. A ray with a zero direction cannot advance; it is
// reported as escaped without sampling the field.
func (m *Marcher) Trace(ray Ray, field sdf.Field, obs Observer) (HitResult, MarchState) {
	p := m.params
	if ray.Direction == (mgl32.Vec3{}) {
		return HitResult{}, MarchState{Distance: p.MinDistance, Outcome: OutcomeEscaped}
	}
	state := MarchState{Distance: p.MinDistance, Outcome: OutcomeExhausted}

	for state.Steps < p.MaxSteps {
		pos := ray.At(state.Distance)
		d := field.Distance(pos)
		state.Steps++
		if obs != nil {
			obs.OnStep(state, d)
		}
		if d != d {
			// NaN field sample; nothing sensible to step by
			break
		}

		if d < p.MinDistance {
			state.Outcome = OutcomeHit
			return HitResult{Hit: true, Point: pos, Distance: state.Distance}, state
		}
		if d > p.MaxDistance {
			state.Outcome = OutcomeEscaped
			return HitResult{}, state
		}
		state.Distance += d
	}

	return HitResult{}, state
}
