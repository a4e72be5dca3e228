package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme defines the panel colors and the backdrop shown where rays miss.
type Theme struct {
	Name     string
	Title    lipgloss.Color
	Label    lipgloss.Color
	Value    lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
	Border   lipgloss.Color
	Graph    asciigraph.AnsiColor
	Backdrop color.NRGBA
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Title:    lipgloss.Color("#ff00ff"),
		Label:    lipgloss.Color("#888899"),
		Value:    lipgloss.Color("#00ffff"),
		Accent:   lipgloss.Color("#ffff00"),
		Muted:    lipgloss.Color("#666666"),
		Warning:  lipgloss.Color("#ff8800"),
		Border:   lipgloss.Color("#444466"),
		Graph:    asciigraph.Magenta,
		Backdrop: color.NRGBA{R: 0x0a, G: 0x0a, B: 0x12, A: 0xff},
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Title:    lipgloss.Color("#00ff00"),
		Label:    lipgloss.Color("#00aa00"),
		Value:    lipgloss.Color("#88ff88"),
		Accent:   lipgloss.Color("#ccffcc"),
		Muted:    lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
		Border:   lipgloss.Color("#003300"),
		Graph:    asciigraph.Green,
		Backdrop: color.NRGBA{R: 0x00, G: 0x11, B: 0x00, A: 0xff},
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Title:    lipgloss.Color("#ffffff"),
		Label:    lipgloss.Color("#888888"),
		Value:    lipgloss.Color("#cccccc"),
		Accent:   lipgloss.Color("#0088ff"),
		Muted:    lipgloss.Color("#555555"),
		Warning:  lipgloss.Color("#ffaa00"),
		Border:   lipgloss.Color("#333333"),
		Graph:    asciigraph.Default,
		Backdrop: color.NRGBA{A: 0xff},
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Title:    lipgloss.Color("#00a8cc"),
		Label:    lipgloss.Color("#4488aa"),
		Value:    lipgloss.Color("#e0f0ff"),
		Accent:   lipgloss.Color("#ffd700"),
		Muted:    lipgloss.Color("#335566"),
		Warning:  lipgloss.Color("#ffcc00"),
		Border:   lipgloss.Color("#0077be"),
		Graph:    asciigraph.DeepSkyBlue,
		Backdrop: color.NRGBA{R: 0x00, G: 0x1a, B: 0x33, A: 0xff},
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Title:    lipgloss.Color("#ff6b6b"),
		Label:    lipgloss.Color("#8b6b8c"),
		Value:    lipgloss.Color("#fff5f5"),
		Accent:   lipgloss.Color("#feca57"),
		Muted:    lipgloss.Color("#5b4b5c"),
		Warning:  lipgloss.Color("#ffc048"),
		Border:   lipgloss.Color("#ff9ff3"),
		Graph:    asciigraph.Coral,
		Backdrop: color.NRGBA{R: 0x2d, G: 0x1b, B: 0x2e, A: 0xff},
	}

	// Themes lists every theme in cycle order.
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name in cycle order.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
