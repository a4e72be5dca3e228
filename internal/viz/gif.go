package viz

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"

	"golang.org/x/image/draw"
)

var ErrNoFrames = errors.New("no frames recorded")

// Recorder collects preview frames for an animated GIF. The first frame
// fixes the recording size; later frames are scaled to it, so a terminal
// resize mid-recording still encodes.
type Recorder struct {
	delay  int // hundredths of a second
	bounds image.Rectangle
	frames []*image.Paletted
}

func NewRecorder(fps float32) *Recorder {
	delay := 4
	if fps > 0 {
		delay = max(int(100/fps+0.5), 2)
	}
	return &Recorder{delay: delay}
}

// Add quantizes img to the Plan9 palette with dithering. Transparent
// pixels take the backdrop color.
func (r *Recorder) Add(img image.Image, backdrop color.NRGBA) {
	if len(r.frames) == 0 {
		r.bounds = image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy())
	}
	b := r.bounds
	flat := image.NewNRGBA(b)
	draw.Draw(flat, b, image.NewUniform(backdrop), image.Point{}, draw.Src)
	if img.Bounds().Size() == b.Size() {
		draw.Draw(flat, b, img, img.Bounds().Min, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(flat, b, img, img.Bounds(), draw.Over, nil)
	}

	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, flat, image.Point{})
	r.frames = append(r.frames, p)
}

func (r *Recorder) Len() int { return len(r.frames) }

// Size is the recording size, zero until the first frame.
func (r *Recorder) Size() image.Point { return r.bounds.Size() }

func (r *Recorder) Reset() {
	r.frames = nil
	r.bounds = image.Rectangle{}
}

// Encode writes the recording as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := &gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, anim)
}

func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
