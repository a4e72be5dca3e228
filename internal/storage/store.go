// Package storage persists rendered runs: metadata, frames, primitive
// trajectories and a thumbnail, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/blobmarch/internal/config"
	"github.com/san-kum/blobmarch/internal/log"
	"github.com/san-kum/blobmarch/internal/metrics"
	"github.com/san-kum/blobmarch/internal/render"
	"golang.org/x/image/draw"
)

var logger = log.New("storage")

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "primitives.csv"
	thumbFile      = "thumb.png"
	thumbWidth     = 64
)

// ErrRunClosed is returned when adding frames to a finished run.
var ErrRunClosed = errors.New("storage: run already closed")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// FrameRecord is the per-frame summary kept in metadata.json.
type FrameRecord struct {
	Index     int                `json:"index"`
	Time      float32            `json:"time"`
	ElapsedMS float64            `json:"elapsed_ms"`
	Stats     metrics.FrameStats `json:"stats"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Config     *config.Config     `json:"config"`
	Primitives int                `json:"primitives"`
	Frames     int                `json:"frames"`
	TotalMS    float64            `json:"total_ms"`
	Metrics    map[string]float64 `json:"metrics"`
	FrameStats []FrameRecord      `json:"frame_stats"`
}

// Run is an open run directory receiving frames in order.
type Run struct {
	dir    string
	meta   RunMetadata
	csv    *os.File
	w      *csv.Writer
	closed bool
}

// Create allocates a fresh run directory named after name and the current
// time. A numeric suffix keeps ids unique within the same second.
func (s *Store) Create(name string, cfg *config.Config) (*Run, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s_%s", name, time.Now().Format("20060102-150405"))
	runID := base
	dir := s.Dir(runID)
	for i := 1; ; i++ {
		err := os.Mkdir(dir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return nil, err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
		dir = s.Dir(runID)
	}

	f, err := os.Create(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return nil, err
	}

	r := &Run{
		dir: dir,
		csv: f,
		w:   csv.NewWriter(f),
		meta: RunMetadata{
			ID:        runID,
			Name:      name,
			Timestamp: time.Now(),
			Metrics:   map[string]float64{},
		},
	}
	if cfg != nil {
		r.meta.Config = cfg.Clone()
	}
	logger.Debugf("created run %s", runID)
	return r, nil
}

func (r *Run) ID() string  { return r.meta.ID }
func (r *Run) Dir() string { return r.dir }

// Add writes the frame image, its trajectory row and its stats. The first
// frame also produces the thumbnail.
func (r *Run) Add(f *render.Frame) error {
	if r.closed {
		return ErrRunClosed
	}

	prims := f.Uniforms.Primitives
	if r.meta.Frames == 0 {
		r.meta.Primitives = len(prims)
		header := []string{"time"}
		for i := range prims {
			header = append(header, fmt.Sprintf("p%d_x", i), fmt.Sprintf("p%d_y", i), fmt.Sprintf("p%d_z", i))
		}
		if err := r.w.Write(header); err != nil {
			return err
		}
		if err := writePNG(filepath.Join(r.dir, thumbFile), Thumbnail(f.Image, thumbWidth)); err != nil {
			return err
		}
	}

	row := []string{formatFloat(f.Time)}
	for _, p := range prims {
		row = append(row, formatFloat(p.Center[0]), formatFloat(p.Center[1]), formatFloat(p.Center[2]))
	}
	if err := r.w.Write(row); err != nil {
		return err
	}

	if err := writePNG(filepath.Join(r.dir, FrameFile(f.Index)), f.Image); err != nil {
		return err
	}

	ms := float64(f.Elapsed.Microseconds()) / 1000
	r.meta.FrameStats = append(r.meta.FrameStats, FrameRecord{
		Index:     f.Index,
		Time:      f.Time,
		ElapsedMS: ms,
		Stats:     f.Stats,
	})
	r.meta.TotalMS += ms
	r.meta.Frames++
	return nil
}

// Close flushes the trajectory and writes metadata.json with per-run means.
func (r *Run) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	r.w.Flush()
	werr := r.w.Error()
	cerr := r.csv.Close()

	if n := len(r.meta.FrameStats); n > 0 {
		var total metrics.FrameStats
		for _, fr := range r.meta.FrameStats {
			total.Merge(fr.Stats)
		}
		r.meta.Metrics = total.Values()
		r.meta.Metrics["frame_ms"] = r.meta.TotalMS / float64(n)
	}

	if err := writeJSON(filepath.Join(r.dir, metadataFile), r.meta); err != nil {
		return err
	}
	logger.Infof("saved run %s: %d frames", r.meta.ID, r.meta.Frames)
	return errors.Join(werr, cerr)
}

func FrameFile(index int) string {
	return fmt.Sprintf("frame_%04d.png", index)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads primitives.csv back as per-frame times and centers.
func (s *Store) LoadTrajectory(runID string) ([]float32, [][]mgl32.Vec3, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float32{}, [][]mgl32.Vec3{}, nil
	}

	times := make([]float32, 0, len(records)-1)
	centers := make([][]mgl32.Vec3, 0, len(records)-1)
	for _, record := range records[1:] {
		if (len(record)-1)%3 != 0 {
			return nil, nil, fmt.Errorf("storage: %s: malformed row with %d fields", runID, len(record))
		}
		vals := make([]float32, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s: %w", runID, err)
			}
			vals[j] = float32(v)
		}

		times = append(times, vals[0])
		row := make([]mgl32.Vec3, 0, (len(vals)-1)/3)
		for j := 1; j+2 < len(vals); j += 3 {
			row = append(row, mgl32.Vec3{vals[j], vals[j+1], vals[j+2]})
		}
		centers = append(centers, row)
	}
	return times, centers, nil
}

// LoadFrame decodes one stored frame.
func (s *Store) LoadFrame(runID string, index int) (image.Image, error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), FrameFile(index)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// Thumbnail scales src to width pixels wide, keeping the aspect ratio.
func Thumbnail(src image.Image, width int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() <= width {
		width = b.Dx()
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
