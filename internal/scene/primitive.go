package scene

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/sdf"
)

// Primitive is a sphere slot. All primitives of a set share one radius.
type Primitive = sdf.Sphere

// PrimitiveSet is an ordered collection of spheres whose size is fixed at
// construction. Slot order is the smooth-union fold order.
type PrimitiveSet struct {
	prims  []Primitive
	radius float32
}

// NewPrimitiveSet places one primitive at each center.
func NewPrimitiveSet(centers []mgl32.Vec3, radius float32) (*PrimitiveSet, error) {
	if len(centers) == 0 {
		return nil, ErrNoPrimitives
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: got %v", sdf.ErrRadius, radius)
	}
	s := &PrimitiveSet{prims: make([]Primitive, len(centers)), radius: radius}
	for i, c := range centers {
		s.prims[i] = Primitive{Center: c, Radius: radius}
	}
	return s, nil
}

// GridCenters returns width*height*length jittered rest positions. Each
// component is drawn uniformly from [0, extent/2) of its axis, iterating x
// then y then z so slot order is stable for a given seed.
func GridCenters(width, height, length int, rng *rand.Rand) ([]mgl32.Vec3, error) {
	if width <= 0 || height <= 0 || length <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrGridExtent, width, height, length)
	}
	w, h, l := float32(width), float32(height), float32(length)
	centers := make([]mgl32.Vec3, 0, width*height*length)
	for i := 0; i < width; i++ {
		for j := 0; j < height; j++ {
			for k := 0; k < length; k++ {
				centers = append(centers, mgl32.Vec3{
					rng.Float32() * w / 2,
					rng.Float32() * h / 2,
					rng.Float32() * l / 2,
				})
			}
		}
	}
	return centers, nil
}

// NewGridPrimitiveSet builds a set with GridCenters.
func NewGridPrimitiveSet(width, height, length int, radius float32, seed int64) (*PrimitiveSet, error) {
	centers, err := GridCenters(width, height, length, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return NewPrimitiveSet(centers, radius)
}

func (s *PrimitiveSet) Len() int           { return len(s.prims) }
func (s *PrimitiveSet) Radius() float32    { return s.radius }
func (s *PrimitiveSet) At(i int) Primitive { return s.prims[i] }

// Centers returns a copy of every center in slot order.
func (s *PrimitiveSet) Centers() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(s.prims))
	for i, p := range s.prims {
		out[i] = p.Center
	}
	return out
}

// AppendPrimitives appends the current primitives to dst.
func (s *PrimitiveSet) AppendPrimitives(dst []Primitive) []Primitive {
	return append(dst, s.prims...)
}

func (s *PrimitiveSet) setCenter(i int, c mgl32.Vec3) {
	s.prims[i].Center = c
}
