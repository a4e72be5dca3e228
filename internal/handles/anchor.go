package handles

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/scene"
)

// Anchor is a movable handle bound to one primitive slot.
type Anchor struct {
	Rest mgl32.Vec3
	Pos  mgl32.Vec3
	Live bool
}

func (a *Anchor) WorldPosition() (mgl32.Vec3, bool) {
	return a.Pos, a.Live
}

// NewAnchors creates one live anchor per center, resting where it starts.
func NewAnchors(centers []mgl32.Vec3) []*Anchor {
	anchors := make([]*Anchor, len(centers))
	for i, c := range centers {
		anchors[i] = &Anchor{Rest: c, Pos: c, Live: true}
	}
	return anchors
}

// Rig pairs a set of anchors with the animator driving them.
type Rig struct {
	anchors  []*Anchor
	handles  []scene.Handle
	animator Animator
}

func NewRig(centers []mgl32.Vec3, animator Animator) *Rig {
	anchors := NewAnchors(centers)
	hs := make([]scene.Handle, len(anchors))
	for i, a := range anchors {
		hs[i] = a
	}
	if animator == nil {
		animator = Static{}
	}
	return &Rig{anchors: anchors, handles: hs, animator: animator}
}

// Handles returns the anchors as scene handles in slot order.
func (r *Rig) Handles() []scene.Handle { return r.handles }

func (r *Rig) Anchors() []*Anchor { return r.anchors }

func (r *Rig) Animator() Animator { return r.animator }

func (r *Rig) SetAnimator(a Animator) {
	if a == nil {
		a = Static{}
	}
	r.animator = a
}

// Animate moves every live anchor to its position at time t.
func (r *Rig) Animate(t float32) {
	r.animator.Animate(r.anchors, t)
}

// Reset returns every anchor to its rest position.
func (r *Rig) Reset() {
	for _, a := range r.anchors {
		a.Pos = a.Rest
	}
}
