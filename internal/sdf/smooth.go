package sdf

import "github.com/chewxy/math32"

const (
	// MinSmoothFactor is the floor applied to k before division.
	MinSmoothFactor float32 = 1e-6

	// MaxSmoothFactor is the largest accepted blend radius.
	MaxSmoothFactor float32 = 2.0

	// DefaultSmoothFactor matches the reference scene.
	DefaultSmoothFactor float32 = 0.5
)

// ValidateSmoothFactor rejects blend radii outside (0, MaxSmoothFactor].
func ValidateSmoothFactor(k float32) error {
	if math32.IsNaN(k) || k <= 0 || k > MaxSmoothFactor {
		return ErrSmoothFactor
	}
	return nil
}

// SmoothMin blends a and b with radius k:
//
//	h = clamp(0.5 + 0.5*(b-a)/k, 0, 1)
//	mix(b, a, h) - k*h*(1-h)
//
// The result never exceeds min(a, b) and approaches it as k goes to 0.
func SmoothMin(a, b, k float32) float32 {
	if k < MinSmoothFactor {
		k = MinSmoothFactor
	}
	h := clamp(0.5+0.5*(b-a)/k, 0, 1)
	return mix(b, a, h) - k*h*(1-h)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

func mix(x, y, a float32) float32 {
	return x*(1-a) + y*a
}
