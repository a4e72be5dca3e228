package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/blobmarch/internal/compute"
	"github.com/san-kum/blobmarch/internal/handles"
	"github.com/san-kum/blobmarch/internal/march"
	"github.com/san-kum/blobmarch/internal/render"
	"github.com/san-kum/blobmarch/internal/scene"
	"github.com/san-kum/blobmarch/internal/sdf"
	"github.com/san-kum/blobmarch/internal/shade"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGrid   = 3
	DefaultWidth  = 160
	DefaultHeight = 120
	DefaultFrames = 60
	DefaultFPS    = 30
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Scene    SceneConfig   `yaml:"scene" json:"scene"`
	March    march.Params  `yaml:"march" json:"march"`
	Camera   render.Camera `yaml:"camera" json:"camera"`
	Output   OutputConfig  `yaml:"output" json:"output"`
	Animator string        `yaml:"animator" json:"animator"`
	Shading  string        `yaml:"shading" json:"shading"`
	Backend  string        `yaml:"backend" json:"backend"`
	Seed     int64         `yaml:"seed" json:"seed"`
}

type SceneConfig struct {
	Width        int     `yaml:"width" json:"width"`
	Height       int     `yaml:"height" json:"height"`
	Length       int     `yaml:"length" json:"length"`
	Radius       float32 `yaml:"radius" json:"radius"`
	SmoothFactor float32 `yaml:"smooth_factor" json:"smooth_factor"`
	Exposure     float32 `yaml:"exposure" json:"exposure"`
}

type OutputConfig struct {
	Width  int     `yaml:"width" json:"width"`
	Height int     `yaml:"height" json:"height"`
	Frames int     `yaml:"frames" json:"frames"`
	FPS    float32 `yaml:"fps" json:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Width:        DefaultGrid,
			Height:       DefaultGrid,
			Length:       DefaultGrid,
			Radius:       sdf.DefaultRadius,
			SmoothFactor: sdf.DefaultSmoothFactor,
			Exposure:     scene.DefaultExposure,
		},
		March:  march.DefaultParams(),
		Camera: render.DefaultCamera(),
		Output: OutputConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Frames: DefaultFrames,
			FPS:    DefaultFPS,
		},
		Animator: "orbit",
		Shading:  string(shade.ModeLit),
		Backend:  "auto",
		Seed:     1,
	}
}

// Load overlays the file at path on top of DefaultConfig and validates the
// result.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base. Keys missing from the file
// keep the base values, so a file can refine a preset.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// PrimitiveCount is the number of slots the scene grid produces.
func (c *Config) PrimitiveCount() int {
	return c.Scene.Width * c.Scene.Height * c.Scene.Length
}

// Validate rejects every configuration that would fail at frame time.
func (c *Config) Validate() error {
	invalid := func(err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s := c.Scene
	if s.Width <= 0 || s.Height <= 0 || s.Length <= 0 {
		return invalid(fmt.Errorf("%w: %dx%dx%d", scene.ErrGridExtent, s.Width, s.Height, s.Length))
	}
	if !(s.Radius > 0) {
		return invalid(fmt.Errorf("%w: got %v", sdf.ErrRadius, s.Radius))
	}
	if err := sdf.ValidateSmoothFactor(s.SmoothFactor); err != nil {
		return invalid(fmt.Errorf("%w: got %v", err, s.SmoothFactor))
	}
	if err := scene.ValidateExposure(s.Exposure); err != nil {
		return invalid(fmt.Errorf("%w: got %v", err, s.Exposure))
	}
	if err := c.March.Validate(); err != nil {
		return invalid(err)
	}
	if err := c.Camera.Validate(); err != nil {
		return invalid(err)
	}

	o := c.Output
	if o.Width <= 0 || o.Height <= 0 {
		return invalid(fmt.Errorf("%w: %dx%d", render.ErrImageSize, o.Width, o.Height))
	}
	if o.Frames < 1 {
		return invalid(fmt.Errorf("frames must be at least 1, got %d", o.Frames))
	}
	if !(o.FPS > 0) {
		return invalid(fmt.Errorf("fps must be positive, got %v", o.FPS))
	}

	if _, err := handles.Get(c.Animator, c.Seed); err != nil {
		return invalid(err)
	}
	if _, err := shade.ParseMode(c.Shading); err != nil {
		return invalid(err)
	}
	if _, err := compute.ByName(c.Backend); err != nil {
		return invalid(err)
	}
	return nil
}
