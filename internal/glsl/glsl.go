// Package glsl emits a fragment shader that evaluates the same field,
// march and shading as the CPU renderer. The primitive array is sized at
// emit time, so a change in primitive count requires emitting again.
package glsl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/san-kum/blobmarch/internal/march"
	"github.com/san-kum/blobmarch/internal/shade"
)

// ErrCount indicates a shader requested for zero primitives.
var ErrCount = errors.New("glsl: primitive count must be positive")

type Options struct {
	Count  int
	Radius float32
	Params march.Params
	Mode   shade.Mode
}

type templateData struct {
	Options
	Lit bool
}

var funcs = template.FuncMap{"f": Float}

var fragment = template.Must(template.New("fragment").Funcs(funcs).Parse(fragmentSource))

// Write renders the fragment shader for opts to w.
func Write(w io.Writer, opts Options) error {
	if opts.Count <= 0 {
		return fmt.Errorf("%w: got %d", ErrCount, opts.Count)
	}
	if err := opts.Params.Validate(); err != nil {
		return err
	}
	if !(opts.Radius > 0) {
		return fmt.Errorf("glsl: radius must be positive, got %v", opts.Radius)
	}
	mode, err := shade.ParseMode(string(opts.Mode))
	if err != nil {
		return err
	}
	opts.Mode = mode
	return fragment.Execute(w, templateData{Options: opts, Lit: mode == shade.ModeLit})
}

// Source is Write into a string.
func Source(opts Options) (string, error) {
	var b strings.Builder
	if err := Write(&b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Float formats v as a GLSL float literal; integral values keep a ".0".
func Float(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

const fragmentSource = `precision highp float;

// generated: {{.Count}} primitives, mode {{.Mode}}
#define PRIMITIVE_COUNT {{.Count}}

uniform float uTime;
uniform float uSmoothFactor;
uniform float uExposure;
uniform vec3 uCamPos;
uniform vec3 uMeshPositions[PRIMITIVE_COUNT];

varying vec3 vPosition;

const float MAX_DIST = {{f .Params.MaxDistance}};
const float MIN_DIST = {{f .Params.MinDistance}};
const int MAX_STEPS = {{.Params.MaxSteps}};
const float RADIUS = {{f .Radius}};
const float MIN_SMOOTH = 1e-6;

float sphereSDF(vec3 p, vec3 o, float r) {
    return length(p - o) - r;
}

float smin(float a, float b, float k) {
    float h = clamp(0.5 + 0.5 * (b - a) / k, 0.0, 1.0);
    return mix(b, a, h) - k * h * (1.0 - h);
}

float sceneSDF(vec3 p) {
    float k = max(uSmoothFactor, MIN_SMOOTH);
    float d = sphereSDF(p, uMeshPositions[0], RADIUS);
    for (int i = 1; i < PRIMITIVE_COUNT; i++) {
        d = smin(d, sphereSDF(p, uMeshPositions[i], RADIUS), k);
    }
    return d;
}

vec3 sceneNormal(vec3 p) {
    const vec2 e = vec2(0.01, 0.0);
    vec3 g = vec3(
        sceneSDF(p + e.xyy) - sceneSDF(p - e.xyy),
        sceneSDF(p + e.yxy) - sceneSDF(p - e.yxy),
        sceneSDF(p + e.yyx) - sceneSDF(p - e.yyx)
    );
    float len = length(g);
    if (len <= 1e-8) {
        return vec3(0.0, 1.0, 0.0);
    }
    return g / len;
}

vec3 baseColor(vec3 p) {
    return (sin(p * 2.0) / 2.0 + 0.5) * 0.7 + 0.3;
}
{{if .Lit}}
vec3 shade(vec3 p, vec3 n, vec3 base) {
    vec3 l = normalize(vec3(cos(uTime), 0.8, sin(uTime)));
    vec3 ambient = base * 0.5;
    vec3 diffuse = max(0.0, dot(n, l)) * base;
    float spec = 0.0;
    vec3 h = l + normalize(uCamPos - p);
    if (length(h) > 1e-8) {
        spec = pow(max(0.0, dot(n, normalize(h))), 20.0);
    }
    return clamp(ambient + diffuse + spec * base, 0.0, 1.0);
}
{{end}}
vec4 rayMarch(vec3 ro, vec3 rd) {
    float dist = MIN_DIST;
    for (int i = 0; i < MAX_STEPS; i++) {
        vec3 pos = ro + rd * dist;
        float sdf = sceneSDF(pos);
        if (sdf < MIN_DIST) {
{{- if .Lit}}
            return vec4(shade(pos, sceneNormal(pos), baseColor(pos)), 1.0);
{{- else}}
            return vec4(clamp(baseColor(pos), 0.0, 1.0), 1.0);
{{- end}}
        }
        if (sdf > MAX_DIST) {
            return vec4(0.0);
        }
        dist += sdf;
    }
    return vec4(0.0);
}

void main() {
    vec3 rd = normalize(vPosition - uCamPos);
    gl_FragColor = rayMarch(uCamPos, rd);
}
`
