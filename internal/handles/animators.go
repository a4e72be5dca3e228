package handles

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Animator positions anchors for time t. Implementations only write Pos.
type Animator interface {
	Name() string
	Animate(anchors []*Anchor, t float32)
}

// Static holds every anchor at rest.
type Static struct{}

func (Static) Name() string { return "static" }

func (Static) Animate(anchors []*Anchor, t float32) {
	for _, a := range anchors {
		a.Pos = a.Rest
	}
}

// Orbit circles each anchor around its rest position in a tilted plane.
// Slots are phase-shifted so neighbors do not move in lockstep.
type Orbit struct {
	Radius float32
	Speed  float32
}

func NewOrbit() *Orbit { return &Orbit{Radius: 0.2, Speed: 1} }

func (o *Orbit) Name() string { return "orbit" }

func (o *Orbit) Animate(anchors []*Anchor, t float32) {
	n := float32(len(anchors))
	for i, a := range anchors {
		phase := o.Speed*t + 2*math32.Pi*float32(i)/n
		s, c := math32.Sincos(phase)
		a.Pos = a.Rest.Add(mgl32.Vec3{c, 0.5 * s, s}.Mul(o.Radius))
	}
}

// Breathe scales the rest layout toward and away from its centroid.
type Breathe struct {
	Amplitude float32
	Speed     float32
}

func NewBreathe() *Breathe { return &Breathe{Amplitude: 0.35, Speed: 1.5} }

func (b *Breathe) Name() string { return "breathe" }

func (b *Breathe) Animate(anchors []*Anchor, t float32) {
	if len(anchors) == 0 {
		return
	}
	var centroid mgl32.Vec3
	for _, a := range anchors {
		centroid = centroid.Add(a.Rest)
	}
	centroid = centroid.Mul(1 / float32(len(anchors)))

	scale := 1 + b.Amplitude*math32.Sin(b.Speed*t)
	for _, a := range anchors {
		a.Pos = centroid.Add(a.Rest.Sub(centroid).Mul(scale))
	}
}

// Drift wanders each anchor along a seeded sum of sines. Frequencies and
// phases are drawn once per slot count, so the path is a function of t.
type Drift struct {
	Amplitude float32
	seed      int64
	freqs     [][3]float32
	phases    [][3]float32
}

func NewDrift(seed int64) *Drift { return &Drift{Amplitude: 0.25, seed: seed} }

func (d *Drift) Name() string { return "drift" }

func (d *Drift) prepare(n int) {
	if len(d.freqs) == n {
		return
	}
	rng := rand.New(rand.NewSource(d.seed))
	d.freqs = make([][3]float32, n)
	d.phases = make([][3]float32, n)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			d.freqs[i][k] = 0.3 + rng.Float32()*1.2
			d.phases[i][k] = rng.Float32() * 2 * math32.Pi
		}
	}
}

func (d *Drift) Animate(anchors []*Anchor, t float32) {
	d.prepare(len(anchors))
	for i, a := range anchors {
		f, p := d.freqs[i], d.phases[i]
		a.Pos = a.Rest.Add(mgl32.Vec3{
			math32.Sin(f[0]*t + p[0]),
			math32.Sin(f[1]*t + p[1]),
			math32.Sin(f[2]*t + p[2]),
		}.Mul(d.Amplitude))
	}
}
