package viz

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/blobmarch/internal/config"
	"github.com/san-kum/blobmarch/internal/experiment"
	"github.com/san-kum/blobmarch/internal/handles"
	"github.com/san-kum/blobmarch/internal/log"
	"github.com/san-kum/blobmarch/internal/metrics"
	"github.com/san-kum/blobmarch/internal/render"
	"github.com/san-kum/blobmarch/internal/sdf"
	"github.com/san-kum/blobmarch/internal/shade"
)

const (
	defaultCols     = 64
	defaultRows     = 24
	minCols         = 8
	minRows         = 4
	panelWidth      = 40
	historyCapacity = 240

	orbitStep  float32 = 0.1
	smoothStep float32 = 0.05
)

var logger = log.New("viz")

// TickMsg advances the preview by one frame.
type TickMsg time.Time

// Options configures the live preview.
type Options struct {
	Config     *config.Config
	ConfigPath string // watched for changes when set
	Theme      string
	GIFPath    string
	LogFile    string // log destination while the preview owns the terminal
}

// Model is the Bubble Tea model for the live preview.
type Model struct {
	exp     *experiment.Experiment
	cam     render.Camera // camera to restore on reset
	k       float32       // smooth factor to restore on reset
	fps     float32
	t       float32
	frame   int
	running bool

	cols, rows int
	last       *render.Frame
	frameMS    *metrics.History
	hitRatio   *metrics.History

	theme  Theme
	styles Styles

	recorder  *Recorder
	recording bool
	gifPath   string

	watcher *Watcher
	status  string
	err     error
}

// NewModel builds the experiment for opts.Config and sizes it for a default
// terminal until the first WindowSizeMsg arrives.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return Model{}, err
	}
	theme := GetTheme(opts.Theme)
	gifPath := opts.GIFPath
	if gifPath == "" {
		gifPath = "blobmarch.gif"
	}

	m := Model{
		exp:      exp,
		cam:      exp.Config().Camera,
		k:        exp.Config().Scene.SmoothFactor,
		fps:      exp.Config().Output.FPS,
		running:  true,
		frameMS:  metrics.NewHistory(historyCapacity),
		hitRatio: metrics.NewHistory(historyCapacity),
		theme:    theme,
		styles:   NewStyles(theme),
		recorder: NewRecorder(exp.Config().Output.FPS),
		gifPath:  gifPath,
	}
	if err := m.resize(defaultCols, defaultRows); err != nil {
		return Model{}, err
	}
	if opts.ConfigPath != "" {
		w, err := WatchConfig(opts.ConfigPath)
		if err != nil {
			return Model{}, fmt.Errorf("watch %s: %w", opts.ConfigPath, err)
		}
		m.watcher = w
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(float32(time.Second)/m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return tea.Batch(m.tick(), m.watcher.Next())
	}
	return m.tick()
}

// Update handles input events and renders frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		cols := msg.Width - panelWidth - 4
		rows := msg.Height - 1
		if err := m.resize(cols, rows); err != nil {
			m.err = err
		}
		return m, nil
	case TickMsg:
		m.step()
		return m, m.tick()
	case ReloadMsg:
		m.reload(msg)
		if m.watcher == nil {
			return m, nil
		}
		return m, m.watcher.Next()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.shutdown()
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "left", "h":
		m.exp.Renderer().Camera().Orbit(-orbitStep, 0)
	case "right", "l":
		m.exp.Renderer().Camera().Orbit(orbitStep, 0)
	case "up", "k":
		m.adjustSmooth(smoothStep)
	case "down", "j":
		m.adjustSmooth(-smoothStep)
	case "a":
		next := handles.Next(m.exp.Config().Animator)
		if err := m.exp.SetAnimator(next); err != nil {
			m.err = err
		} else {
			m.status = "animator " + next
		}
	case "s":
		mode := shade.ModeFlat
		if m.exp.Renderer().Options().Mode == shade.ModeFlat {
			mode = shade.ModeLit
		}
		m.exp.Renderer().SetMode(mode)
		m.status = "shading " + string(mode)
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
	case "g":
		m.toggleRecording()
	case "r":
		m.reset()
	}
	return m, nil
}

// step renders one frame at the current time, advancing it while running.
func (m *Model) step() {
	f, err := m.exp.Renderer().RenderFrame(context.Background(), m.frame, m.t)
	if err != nil {
		m.err = err
		m.running = false
		logger.Errorf("render: %v", err)
		return
	}
	m.err = nil
	m.last = f
	m.frameMS.Push(float64(f.Elapsed.Microseconds()) / 1000)
	m.hitRatio.Push(f.Stats.HitRatio())
	if m.recording {
		m.recorder.Add(f.Image, m.theme.Backdrop)
	}
	if m.running {
		m.frame++
		m.t += 1 / m.fps
	}
}

func (m *Model) resize(cols, rows int) error {
	cols, rows = max(cols, minCols), max(rows, minRows)
	if err := m.exp.Renderer().Resize(cols, rows*2); err != nil {
		return err
	}
	m.cols, m.rows = cols, rows
	return nil
}

func (m *Model) adjustSmooth(delta float32) {
	k := m.exp.Config().Scene.SmoothFactor + delta
	k = min(max(k, smoothStep), sdf.MaxSmoothFactor)
	if err := m.exp.SetSmoothFactor(k); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("k=%.2f", k)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recorder.Reset()
		m.recording = true
		m.status = "recording"
		return
	}
	m.recording = false
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.gifPath)
	logger.Noticef("gif saved: %s (%d frames)", m.gifPath, m.recorder.Len())
}

// reset restores time, camera, handles and smooth factor.
func (m *Model) reset() {
	m.t, m.frame = 0, 0
	*m.exp.Renderer().Camera() = m.cam
	m.exp.Rig().Reset()
	if err := m.exp.SetSmoothFactor(m.k); err != nil {
		m.err = err
	}
	m.frameMS.Reset()
	m.hitRatio.Reset()
	m.status = "reset"
}

// reload swaps in a freshly built experiment. Time and camera carry over.
func (m *Model) reload(msg ReloadMsg) {
	if msg.Err != nil {
		m.err = msg.Err
		logger.Warningf("config reload: %v", msg.Err)
		return
	}
	cam := *m.exp.Renderer().Camera()
	exp, err := experiment.New(msg.Config)
	if err != nil {
		m.err = err
		logger.Warningf("config reload: %v", err)
		return
	}
	m.exp = exp
	*m.exp.Renderer().Camera() = cam
	m.k = exp.Config().Scene.SmoothFactor
	m.fps = exp.Config().Output.FPS
	if err := m.resize(m.cols, m.rows); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "config reloaded"
	logger.Infof("config reloaded: %d primitives", exp.Set().Len())
}

func (m *Model) shutdown() {
	if m.recording {
		m.toggleRecording()
	}
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// View renders the frame beside the stats panel.
func (m Model) View() string {
	var canvas string
	if m.last != nil {
		canvas = HalfBlock(m.last.Image, m.theme.Backdrop)
	} else {
		canvas = strings.Repeat(strings.Repeat(" ", m.cols)+"\n", m.rows)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.styles.Panel.Render(m.panel()))
}

func (m Model) panel() string {
	s := m.styles
	cfg := m.exp.Config()
	var b strings.Builder

	b.WriteString(s.Header.Render("BLOBMARCH") + "\n")
	switch {
	case m.recording:
		b.WriteString(s.Recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len())))
	case m.running:
		b.WriteString(s.Running.Render("▶ RUNNING"))
	default:
		b.WriteString(s.Paused.Render("❚❚ PAUSED"))
	}
	b.WriteString("\n\n")

	if m.frameMS.Len() > 1 {
		chart := asciigraph.Plot(m.frameMS.Values(),
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-12),
			asciigraph.Precision(1),
			asciigraph.SeriesColors(m.theme.Graph),
			asciigraph.Caption("frame ms"))
		b.WriteString(chart + "\n\n")
	}

	row := func(label, value string) {
		b.WriteString(s.Label.Render(label) + s.Value.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.2fs", m.t))
	row("frame", fmt.Sprintf("%d", m.frame))
	row("size", fmt.Sprintf("%dx%d", m.cols, m.rows*2))
	row("blobs", fmt.Sprintf("%d", m.exp.Set().Len()))
	row("k", fmt.Sprintf("%.2f", cfg.Scene.SmoothFactor))
	row("animator", cfg.Animator)
	row("shading", string(m.exp.Renderer().Options().Mode))
	row("backend", backendName(m.exp))
	if m.frameMS.Len() > 0 {
		row("avg ms", fmt.Sprintf("%.1f", m.frameMS.Mean()))
	}
	if m.last != nil {
		row("steps", fmt.Sprintf("%.1f", m.last.Stats.MeanSteps()))
		b.WriteString(s.Label.Render("hits") +
			ProgressBar(m.hitRatio.Last(), panelWidth-20, s.Accent, s.Muted) +
			s.Value.Render(fmt.Sprintf(" %3.0f%%", m.hitRatio.Last()*100)) + "\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(s.Accent.Render(m.status) + "\n")
	}
	b.WriteString(Separator(panelWidth-4, s.Muted) + "\n")
	b.WriteString(s.Help.Render("SP:pause ←→:orbit ↑↓:k\nA:anim S:shade T:" + m.theme.Name + "\nG:gif R:reset Q:quit"))
	return b.String()
}

func backendName(e *experiment.Experiment) string {
	if b := e.Renderer().Options().Backend; b != nil {
		return b.Name()
	}
	return "auto"
}

// logSink points the logger away from the terminal for the lifetime of the
// program. The returned func restores stderr.
func logSink(path string) (func(), error) {
	if path == "" {
		log.SetSink(io.Discard)
		return func() { log.SetSink(os.Stderr) }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetSink(f)
	return func() {
		log.SetSink(os.Stderr)
		f.Close()
	}, nil
}

// Run starts the live preview and blocks until it quits.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	restore, err := logSink(opts.LogFile)
	if err != nil {
		return err
	}
	defer restore()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
