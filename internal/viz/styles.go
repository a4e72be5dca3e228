package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Panel     lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Accent    lipgloss.Style
	Muted     lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles builds the panel styles for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(panelWidth),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Label:     lipgloss.NewStyle().Foreground(t.Label).Width(10),
		Value:     lipgloss.NewStyle().Foreground(t.Value).Bold(true),
		Accent:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(t.Muted),
		Running:   lipgloss.NewStyle().Foreground(t.Value).Bold(true),
		Paused:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Recording: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true).Blink(true),
		Help:      lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// ProgressBar renders a bar filled to percent of width cells.
func ProgressBar(percent float64, width int, filled, empty lipgloss.Style) string {
	n := int(percent * float64(width))
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	return filled.Render(strings.Repeat("█", n)) + empty.Render(strings.Repeat("░", width-n))
}

// Separator draws a muted rule with a centered diamond.
func Separator(width int, style lipgloss.Style) string {
	if width < 8 {
		return style.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return style.Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1))
}
