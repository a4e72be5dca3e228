// Package shade turns marched hits into colors.
package shade

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	AmbientFactor float32 = 0.5
	Shininess     float32 = 20
)

// Mode selects how a hit is colored.
type Mode string

const (
	// ModeLit is ambient + diffuse + Blinn-Phong specular.
	ModeLit Mode = "lit"
	// ModeFlat is the procedural base color alone.
	ModeFlat Mode = "flat"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLit, ModeFlat:
		return Mode(s), nil
	case "":
		return ModeLit, nil
	}
	return "", fmt.Errorf("shade: unknown mode %q", s)
}

// Color is a linear RGBA sample with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Transparent is the miss color.
var Transparent = Color{}

// NRGBA converts to an 8-bit non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// BaseColor is the position-keyed procedural albedo:
// (sin(2p)/2 + 0.5) * 0.7 + 0.3 per axis.
func BaseColor(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		(math32.Sin(p[0]*2)/2+0.5)*0.7 + 0.3,
		(math32.Sin(p[1]*2)/2+0.5)*0.7 + 0.3,
		(math32.Sin(p[2]*2)/2+0.5)*0.7 + 0.3,
	}
}

// LightDir is a unit light direction orbiting the Y axis with time t.
func LightDir(t float32) mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(t), 0.8, math32.Sin(t)}.Normalize()
}

// Shade evaluates ambient + diffuse + specular at a hit. Dot products are
// clamped at zero; a degenerate half vector drops the specular term.
func Shade(point, normal, viewer, lightDir, base mgl32.Vec3) Color {
	ambient := base.Mul(AmbientFactor)
	diffuse := base.Mul(math32.Max(0, normal.Dot(lightDir)))

	var spec float32
	if view, ok := unit(viewer.Sub(point)); ok {
		if half, ok := unit(lightDir.Add(view)); ok {
			spec = math32.Pow(math32.Max(0, normal.Dot(half)), Shininess)
		}
	}
	specular := base.Mul(spec)

	c := ambient.Add(diffuse).Add(specular)
	return Color{R: clamp01(c[0]), G: clamp01(c[1]), B: clamp01(c[2]), A: 1}
}

// Flat returns base as an opaque color.
func Flat(base mgl32.Vec3) Color {
	return Color{R: clamp01(base[0]), G: clamp01(base[1]), B: clamp01(base[2]), A: 1}
}

// Shader binds a mode to the frame's light and viewer.
type Shader struct {
	Mode     Mode
	Viewer   mgl32.Vec3
	LightDir mgl32.Vec3
}

// NewShader prepares per-frame constants for elapsed time t.
func NewShader(mode Mode, viewer mgl32.Vec3, t float32) Shader {
	return Shader{Mode: mode, Viewer: viewer, LightDir: LightDir(t)}
}

// Hit colors a surface point with its normal.
func (s Shader) Hit(point, normal mgl32.Vec3) Color {
	base := BaseColor(point)
	if s.Mode == ModeFlat {
		return Flat(base)
	}
	return Shade(point, normal, s.Viewer, s.LightDir, base)
}

// Miss is always fully transparent; background compositing is left to the
// caller.
func (s Shader) Miss() Color { return Transparent }

func unit(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if !(l > 1e-8) {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
