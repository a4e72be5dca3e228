package viz

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/blobmarch/internal/config"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestHalfBlock(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		blocks int
		lines  int
	}{
		{"even", 3, 4, 6, 2},
		{"odd", 2, 3, 4, 2},
		{"single row", 5, 1, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := HalfBlock(solid(tt.w, tt.h, color.NRGBA{R: 255, A: 255}), ThemeMinimal.Backdrop)
			if got := strings.Count(out, upperHalf); got != tt.blocks {
				t.Errorf("blocks = %d, want %d", got, tt.blocks)
			}
			if got := strings.Count(out, "\n") + 1; got != tt.lines {
				t.Errorf("lines = %d, want %d", got, tt.lines)
			}
		})
	}
}

func TestComposite(t *testing.T) {
	bg := color.NRGBA{R: 0, G: 0, B: 200, A: 255}
	tests := []struct {
		name string
		in   color.NRGBA
		want color.NRGBA
	}{
		{"opaque", color.NRGBA{R: 10, G: 20, B: 30, A: 255}, color.NRGBA{R: 10, G: 20, B: 30, A: 255}},
		{"transparent", color.NRGBA{}, bg},
		{"half", color.NRGBA{R: 255, A: 128}, color.NRGBA{R: 128, G: 0, B: 99, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := composite(tt.in, bg); got != tt.want {
				t.Errorf("composite = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFit(t *testing.T) {
	dst := Fit(solid(40, 30, color.NRGBA{G: 255, A: 255}), 10, 6)
	if got := dst.Bounds().Size(); got != (image.Point{X: 10, Y: 12}) {
		t.Fatalf("size = %v", got)
	}
	if c := dst.NRGBAAt(5, 5); c.G != 255 || c.A != 255 {
		t.Errorf("pixel = %v", c)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(30)
	if err := r.Encode(&bytes.Buffer{}); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("empty encode: %v", err)
	}

	r.Add(solid(8, 6, color.NRGBA{R: 255, A: 255}), ThemeOcean.Backdrop)
	r.Add(solid(8, 6, color.NRGBA{}), ThemeOcean.Backdrop)
	if r.Len() != 2 {
		t.Fatalf("len = %d", r.Len())
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 2 {
		t.Fatalf("frames = %d", len(g.Image))
	}
	if g.Delay[0] != 3 {
		t.Errorf("delay = %d, want 3", g.Delay[0])
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}
	r.Reset()
	if r.Len() != 0 {
		t.Error("reset kept frames")
	}
}

func TestRecorderMixedSizes(t *testing.T) {
	r := NewRecorder(30)
	r.Add(solid(10, 10, color.NRGBA{G: 255, A: 255}), ThemeOcean.Backdrop)
	r.Add(solid(20, 20, color.NRGBA{B: 255, A: 255}), ThemeOcean.Backdrop)
	r.Add(solid(4, 7, color.NRGBA{R: 255, A: 255}), ThemeOcean.Backdrop)
	if got := r.Size(); got != image.Pt(10, 10) {
		t.Fatalf("size = %v, want 10x10", got)
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i, img := range g.Image {
		if img.Bounds() != image.Rect(0, 0, 10, 10) {
			t.Errorf("frame %d bounds = %v", i, img.Bounds())
		}
	}

	r.Reset()
	r.Add(solid(3, 2, color.NRGBA{A: 255}), ThemeOcean.Backdrop)
	if got := r.Size(); got != image.Pt(3, 2) {
		t.Errorf("size after reset = %v, want 3x2", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
	seen := map[string]bool{}
	name := Themes[0].Name
	for range Themes {
		seen[name] = true
		name = NextTheme(name).Name
	}
	if len(seen) != len(ThemeNames()) {
		t.Errorf("cycle visited %d of %d themes", len(seen), len(ThemeNames()))
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.GetPreset("pair")
	m, err := NewModel(Options{Config: cfg, GIFPath: filepath.Join(t.TempDir(), "rec.gif")})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTick(t *testing.T) {
	m := newTestModel(t)
	m = update(m, TickMsg(time.Now()))
	if m.last == nil {
		t.Fatal("no frame after tick")
	}
	if m.frame != 1 || m.t <= 0 {
		t.Errorf("frame=%d t=%v", m.frame, m.t)
	}
	if got := m.last.Image.Bounds().Size(); got != (image.Point{X: defaultCols, Y: defaultRows * 2}) {
		t.Errorf("image size = %v", got)
	}

	m = update(m, key(" "))
	before := m.t
	m = update(m, TickMsg(time.Now()))
	if m.t != before {
		t.Error("time advanced while paused")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show paused state")
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)
	k := m.exp.Config().Scene.SmoothFactor

	m = update(m, key("up"))
	if got := m.exp.Config().Scene.SmoothFactor; got <= k {
		t.Errorf("k = %v after up, want > %v", got, k)
	}

	anim := m.exp.Config().Animator
	m = update(m, key("a"))
	if m.exp.Config().Animator == anim {
		t.Error("animator did not change")
	}

	pos := m.exp.Renderer().Camera().Position
	m = update(m, key("left"))
	if m.exp.Renderer().Camera().Position == pos {
		t.Error("camera did not orbit")
	}

	theme := m.theme.Name
	m = update(m, key("t"))
	if m.theme.Name == theme {
		t.Error("theme did not change")
	}

	m = update(m, key("s"))
	if m.exp.Renderer().Options().Mode != "flat" {
		t.Errorf("mode = %s", m.exp.Renderer().Options().Mode)
	}

	m = update(m, TickMsg(time.Now()))
	m = update(m, key("r"))
	if m.t != 0 || m.frame != 0 {
		t.Error("reset kept time")
	}
	if m.exp.Renderer().Camera().Position != pos {
		t.Error("reset kept camera")
	}
	if got := m.exp.Config().Scene.SmoothFactor; got != k {
		t.Errorf("k = %v after reset, want %v", got, k)
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.cols != 100-panelWidth-4 || m.rows != 29 {
		t.Errorf("cols=%d rows=%d", m.cols, m.rows)
	}
	m = update(m, tea.WindowSizeMsg{Width: 10, Height: 2})
	if m.cols != minCols || m.rows != minRows {
		t.Errorf("cols=%d rows=%d, want minimum", m.cols, m.rows)
	}
}

func TestModelRecording(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("g"))
	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))
	m = update(m, key("g"))
	if m.recording {
		t.Fatal("still recording")
	}
	if m.err != nil {
		t.Fatal(m.err)
	}
	if _, err := os.Stat(m.gifPath); err != nil {
		t.Fatalf("gif not written: %v", err)
	}
}

func TestModelRecordingAcrossResize(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("g"))
	m = update(m, TickMsg(time.Now()))
	m = update(m, tea.WindowSizeMsg{Width: panelWidth + 4 + 20, Height: 11})
	m = update(m, TickMsg(time.Now()))
	m = update(m, key("g"))
	if m.err != nil {
		t.Fatalf("recording lost after resize: %v", m.err)
	}
	if _, err := os.Stat(m.gifPath); err != nil {
		t.Fatalf("gif not written: %v", err)
	}
}

func TestModelReload(t *testing.T) {
	m := newTestModel(t)
	cfg := config.GetPreset("single")
	m = update(m, ReloadMsg{Config: cfg})
	if m.err != nil {
		t.Fatal(m.err)
	}
	if m.exp.Set().Len() != 1 {
		t.Errorf("primitives = %d, want 1", m.exp.Set().Len())
	}

	m = update(m, ReloadMsg{Err: errors.New("bad yaml")})
	if m.err == nil {
		t.Error("reload error not surfaced")
	}
	if m.exp.Set().Len() != 1 {
		t.Error("failed reload replaced the scene")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	w, err := WatchConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.Next()() }()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Replace the file in one step so the watcher never sees a partial write.
	cfg := config.GetPreset("tight")
	tmp := filepath.Join(dir, "scene.yaml.tmp")
	if err := config.Save(tmp, cfg); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-msgs:
		reload, ok := msg.(ReloadMsg)
		if !ok {
			t.Fatalf("got %T", msg)
		}
		if reload.Err != nil {
			t.Fatal(reload.Err)
		}
		if reload.Config.Scene.SmoothFactor != cfg.Scene.SmoothFactor {
			t.Errorf("k = %v", reload.Config.Scene.SmoothFactor)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
}

func TestPicker(t *testing.T) {
	p := NewPicker(Options{GIFPath: filepath.Join(t.TempDir(), "rec.gif")})
	if !strings.Contains(p.View(), "default") {
		t.Error("menu should list presets")
	}
	next, _ := p.Update(key("j"))
	p = next.(Picker)
	if p.cursor != 1 {
		t.Fatalf("cursor = %d", p.cursor)
	}
	next, cmd := p.Update(key("enter"))
	p = next.(Picker)
	if p.state != stateLive || cmd == nil {
		t.Fatal("enter should open the live preview")
	}
	if p.live.exp.Config().Animator != config.Presets[p.presets[1]].Animator {
		t.Error("live preview built from the wrong preset")
	}
}
