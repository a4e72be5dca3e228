package march_test

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/blobmarch/internal/march"
	"github.com/san-kum/blobmarch/internal/sdf"
)

func mustField(k float32, centers ...mgl32.Vec3) *sdf.SceneField {
	spheres := make([]sdf.Sphere, len(centers))
	for i, c := range centers {
		spheres[i] = sdf.Sphere{Center: c, Radius: sdf.DefaultRadius}
	}
	f, err := sdf.NewSceneField(spheres, k)
	Expect(err).NotTo(HaveOccurred())
	return f
}

var _ = Describe("Marcher", func() {
	var m *march.Marcher

	BeforeEach(func() {
		var err error
		m, err = march.New(march.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
	})

	Context("single sphere at the origin", func() {
		var field *sdf.SceneField
		probe := march.Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}

		BeforeEach(func() {
			field = mustField(0.5, mgl32.Vec3{})
		})

		It("hits the near pole at distance 4.7", func() {
			hit := m.March(probe, field)
			Expect(hit.Hit).To(BeTrue())
			Expect(hit.Distance).To(BeNumerically("~", 4.7, 0.05))
			Expect(hit.Point.Z()).To(BeNumerically("~", 0.3, 0.05))
		})

		It("estimates a normal facing the camera", func() {
			hit := m.March(probe, field)
			n := march.DefaultNormalEstimator().Normal(hit.Point, field)
			Expect(n.X()).To(BeNumerically("~", 0, 1e-3))
			Expect(n.Y()).To(BeNumerically("~", 0, 1e-3))
			Expect(n.Z()).To(BeNumerically("~", 1, 1e-3))
		})

		It("misses when pointing away", func() {
			away := march.Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, 1}}
			hit, state := m.Trace(away, field, nil)
			Expect(hit.Hit).To(BeFalse())
			Expect(hit).To(Equal(march.HitResult{}))
			Expect(state.Outcome).To(Equal(march.OutcomeEscaped))
		})

		It("hits immediately when starting inside", func() {
			inside := march.Ray{Origin: mgl32.Vec3{0.05, 0, 0}, Direction: mgl32.Vec3{1, 0, 0}}
			hit, state := m.Trace(inside, field, nil)
			Expect(hit.Hit).To(BeTrue())
			Expect(hit.Distance).To(BeNumerically("~", march.DefaultMinDistance, 1e-6))
			Expect(state.Steps).To(Equal(uint32(1)))
		})

		It("keeps distance non-decreasing across steps", func() {
			grazing := march.NewRay(mgl32.Vec3{-3, 0.29, 5}, mgl32.Vec3{0, 0.29, 0})
			var last float32
			steps := 0
			m.Trace(grazing, field, march.ObserverFunc(func(s march.MarchState, _ float32) {
				Expect(s.Distance).To(BeNumerically(">=", last))
				last = s.Distance
				steps++
			}))
			Expect(steps).To(BeNumerically(">", 1))
		})
	})

	Context("two spheres 0.1 apart", func() {
		probe := march.Ray{Origin: mgl32.Vec3{0, 0, 5}, Direction: mgl32.Vec3{0, 0, -1}}
		left, right := mgl32.Vec3{-0.05, 0, 0}, mgl32.Vec3{0.05, 0, 0}

		It("changes the hit distance with the blend radius", func() {
			soft := m.March(probe, mustField(0.5, left, right))
			hard := m.March(probe, mustField(0.01, left, right))

			Expect(soft.Hit).To(BeTrue())
			Expect(hard.Hit).To(BeTrue())
			Expect(soft.Distance).To(BeNumerically(">=", 4.0))
			Expect(soft.Distance).To(BeNumerically("<=", 5.0))
			Expect(hard.Distance).To(BeNumerically(">=", 4.0))
			Expect(hard.Distance).To(BeNumerically("<=", 5.0))
			Expect(hard.Distance - soft.Distance).To(BeNumerically(">", 0.05))
		})
	})

	Context("far away geometry", func() {
		It("escapes on the first step", func() {
			field := mustField(0.5, mgl32.Vec3{500, 0, 0})
			ray := march.Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{0, 0, -1}}
			hit, state := m.Trace(ray, field, nil)
			Expect(hit.Hit).To(BeFalse())
			Expect(state.Outcome).To(Equal(march.OutcomeEscaped))
			Expect(state.Steps).To(Equal(uint32(1)))
		})
	})

	Context("step budget", func() {
		It("reports exhaustion as a miss", func() {
			small, err := march.New(march.Params{MaxDistance: 100, MinDistance: 0.01, MaxSteps: 10})
			Expect(err).NotTo(HaveOccurred())

			slab := sdf.FieldFunc(func(mgl32.Vec3) float32 { return 0.5 })
			hit, state := small.Trace(march.Ray{Direction: mgl32.Vec3{1, 0, 0}}, slab, nil)
			Expect(hit.Hit).To(BeFalse())
			Expect(state.Outcome).To(Equal(march.OutcomeExhausted))
			Expect(state.Steps).To(Equal(uint32(10)))
		})

		It("never exceeds MaxSteps on random rays", func() {
			field := mustField(0.5, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.4, 0.1, 0}, mgl32.Vec3{0.2, 0.5, 0.3})
			for i := 0; i < 64; i++ {
				a := float32(i) * 0.1
				ray := march.NewRay(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{a - 3, 0.5 - a/10, 0})
				_, state := m.Trace(ray, field, nil)
				Expect(state.Steps).To(BeNumerically("<=", march.DefaultMaxSteps))
				Expect(state.Steps).To(BeNumerically(">=", 1))
			}
		})
	})
})
