package config

import "sort"

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"tight": preset(func(c *Config) {
		c.Scene.SmoothFactor = 0.1
	}),
	"loose": preset(func(c *Config) {
		c.Scene.SmoothFactor = 1.5
		c.Animator = "breathe"
	}),
	"single": preset(func(c *Config) {
		c.Scene.Width, c.Scene.Height, c.Scene.Length = 1, 1, 1
		c.Animator = "static"
	}),
	"pair": preset(func(c *Config) {
		c.Scene.Width, c.Scene.Height, c.Scene.Length = 2, 1, 1
		c.Scene.Radius = 0.4
		c.Animator = "orbit"
	}),
	"dense": preset(func(c *Config) {
		c.Scene.Width, c.Scene.Height, c.Scene.Length = 4, 4, 4
		c.Scene.Radius = 0.2
		c.Scene.SmoothFactor = 0.3
		c.Animator = "drift"
		c.March.MaxSteps = 160
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
