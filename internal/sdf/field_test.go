package sdf

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func gridSpheres(n int, seed int64) []Sphere {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Sphere, n)
	for i := range out {
		out[i] = Sphere{
			Center: mgl32.Vec3{rng.Float32() * 1.5, rng.Float32() * 1.5, rng.Float32() * 1.5},
			Radius: DefaultRadius,
		}
	}
	return out
}

func samplePoints(n int, seed int64) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]mgl32.Vec3, n)
	for i := range out {
		out[i] = mgl32.Vec3{rng.Float32()*6 - 3, rng.Float32()*6 - 3, rng.Float32()*6 - 3}
	}
	return out
}

// hardUnion is the plain minimum over all spheres, the k -> 0 limit.
func hardUnion(spheres []Sphere, p mgl32.Vec3) float32 {
	d := spheres[0].Distance(p)
	for _, s := range spheres[1:] {
		d = math32.Min(d, s.Distance(p))
	}
	return d
}

func TestSphereSDF(t *testing.T) {
	tests := []struct {
		name string
		p    mgl32.Vec3
		want float32
	}{
		{"center", mgl32.Vec3{0, 0, 0}, -0.3},
		{"surface", mgl32.Vec3{0.3, 0, 0}, 0},
		{"outside", mgl32.Vec3{0, 0, 5}, 4.7},
		{"diagonal", mgl32.Vec3{3, 4, 0}, 4.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SphereSDF(tt.p, mgl32.Vec3{}, 0.3)
			if math32.Abs(got-tt.want) > 1e-5 {
				t.Errorf("SphereSDF(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSmoothMin_NeverAboveMin(t *testing.T) {
	values := []float32{-2, -0.5, -0.01, 0, 0.01, 0.3, 1, 4.7}
	ks := []float32{0.01, 0.1, 0.5, 1, 2}

	for _, k := range ks {
		for _, a := range values {
			for _, b := range values {
				got := SmoothMin(a, b, k)
				if got > math32.Min(a, b)+1e-6 {
					t.Errorf("SmoothMin(%v, %v, %v) = %v exceeds min", a, b, k, got)
				}
			}
		}
	}
}

func TestSmoothMin_FarApartIsHardMin(t *testing.T) {
	if got := SmoothMin(0.1, 5, 0.5); got != 0.1 {
		t.Errorf("expected exact min when |a-b| > k, got %v", got)
	}
	if got := SmoothMin(5, 0.1, 0.5); got != 0.1 {
		t.Errorf("expected exact min when |a-b| > k, got %v", got)
	}
}

func TestSmoothMin_ZeroFactorClamped(t *testing.T) {
	got := SmoothMin(1, 1, 0)
	if math32.IsNaN(got) || math32.IsInf(got, 0) {
		t.Fatalf("SmoothMin with k=0 produced %v", got)
	}
	if math32.Abs(got-1) > 1e-5 {
		t.Errorf("SmoothMin(1, 1, 0) = %v, want ~1", got)
	}
}

func TestSceneField_BelowEverySphere(t *testing.T) {
	spheres := gridSpheres(27, 1)
	f, err := NewSceneField(spheres, 0.5)
	if err != nil {
		t.Fatalf("NewSceneField: %v", err)
	}

	for _, p := range samplePoints(500, 2) {
		d := f.Distance(p)
		for i, s := range spheres {
			if sd := s.Distance(p); d > sd+1e-5 {
				t.Fatalf("Distance(%v) = %v above sphere %d distance %v", p, d, i, sd)
			}
		}
	}
}

func TestSceneField_ConvergesToHardUnion(t *testing.T) {
	spheres := gridSpheres(8, 3)
	points := samplePoints(200, 4)

	var first, last float32
	for i, k := range []float32{0.5, 0.1, 0.01, 0.0001} {
		f, err := NewSceneField(spheres, k)
		if err != nil {
			t.Fatalf("NewSceneField(k=%v): %v", k, err)
		}
		var worst float32
		for _, p := range points {
			if diff := math32.Abs(f.Distance(p) - hardUnion(spheres, p)); diff > worst {
				worst = diff
			}
		}
		if i == 0 {
			first = worst
		}
		last = worst
	}

	if last > 1e-3 {
		t.Errorf("smallest k still %v away from hard union", last)
	}
	if last >= first {
		t.Errorf("blend error did not shrink: k=0.5 gave %v, k=0.0001 gave %v", first, last)
	}
}

func TestSceneField_FoldOrder(t *testing.T) {
	spheres := gridSpheres(5, 5)
	a, _ := NewSceneField(spheres, 0.5)
	b, _ := NewSceneField(spheres, 0.5)

	p := mgl32.Vec3{0.4, 0.4, 0.4}
	if math32.Float32bits(a.Distance(p)) != math32.Float32bits(b.Distance(p)) {
		t.Error("same order must give bit-identical distances")
	}
}

func TestSceneField_CopiesInput(t *testing.T) {
	spheres := []Sphere{{Center: mgl32.Vec3{}, Radius: 0.3}}
	f, err := NewSceneField(spheres, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	spheres[0].Center = mgl32.Vec3{10, 10, 10}

	if got := f.Distance(mgl32.Vec3{}); math32.Abs(got+0.3) > 1e-6 {
		t.Errorf("field followed caller mutation: %v", got)
	}
}

func TestNewSceneField_Errors(t *testing.T) {
	one := []Sphere{{Radius: 0.3}}
	tests := []struct {
		name    string
		spheres []Sphere
		k       float32
		want    error
	}{
		{"empty", nil, 0.5, ErrNoSpheres},
		{"zero k", one, 0, ErrSmoothFactor},
		{"negative k", one, -0.1, ErrSmoothFactor},
		{"k too large", one, 2.5, ErrSmoothFactor},
		{"nan k", one, math32.NaN(), ErrSmoothFactor},
		{"zero radius", []Sphere{{Radius: 0}}, 0.5, ErrRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSceneField(tt.spheres, tt.k)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func BenchmarkSceneField27(b *testing.B) {
	f, _ := NewSceneField(gridSpheres(27, 1), 0.5)
	p := mgl32.Vec3{0.5, 0.5, 0.5}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Distance(p)
	}
}
