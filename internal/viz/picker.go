package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/blobmarch/internal/config"
)

const (
	stateMenu = iota
	stateLive
)

// Picker lists the config presets and opens the live preview on the chosen
// one.
type Picker struct {
	state   int
	cursor  int
	presets []string
	opts    Options
	live    Model
	err     error
}

func NewPicker(opts Options) Picker {
	return Picker{presets: config.ListPresets(), opts: opts}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateLive {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return p.menuKey(key)
	}
	return p, nil
}

func (p Picker) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		opts := p.opts
		opts.Config = config.GetPreset(p.presets[p.cursor])
		live, err := NewModel(opts)
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live, p.state = live, stateLive
		return p, tea.Batch(live.Init(), tea.WindowSize())
	}
	return p, nil
}

func describe(cfg *config.Config) string {
	s := cfg.Scene
	return fmt.Sprintf("%dx%dx%d k=%.2f %s", s.Width, s.Height, s.Length, s.SmoothFactor, cfg.Animator)
}

func (p Picker) View() string {
	if p.state == stateLive {
		return p.live.View()
	}
	theme := GetTheme(p.opts.Theme)
	st := NewStyles(theme)
	var b strings.Builder
	b.WriteString("\n\n    " + st.Header.Render("BLOBMARCH") + "\n    " + st.Muted.Render("smooth-blended sphere tracer") + "\n\n")
	for i, name := range p.presets {
		desc := describe(config.Presets[name])
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				st.Accent.Render("▸"),
				st.Value.Render(fmt.Sprintf("%-10s", name)),
				lipgloss.NewStyle().Foreground(theme.Title).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n",
				st.Muted.Render(fmt.Sprintf("%-10s", name)),
				st.Muted.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(theme.Warning).Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.Help.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

// RunPicker shows the preset menu, then the live preview.
func RunPicker(opts Options) error {
	restore, err := logSink(opts.LogFile)
	if err != nil {
		return err
	}
	defer restore()
	_, err = tea.NewProgram(NewPicker(opts), tea.WithAltScreen()).Run()
	return err
}
