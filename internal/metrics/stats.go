package metrics

import (
	"github.com/san-kum/blobmarch/internal/march"
)

// FrameStats counts march outcomes for one frame. Each render worker fills
// its own value and the results are merged once the frame completes, so no
// locking is needed.
type FrameStats struct {
	Rays      uint64 `json:"rays"`
	Hits      uint64 `json:"hits"`
	Escaped   uint64 `json:"escaped"`
	Exhausted uint64 `json:"exhausted"`
	Steps     uint64 `json:"steps"`
	MaxSteps  uint32 `json:"max_steps"`
}

func (f *FrameStats) Observe(s march.MarchState) {
	f.Rays++
	f.Steps += uint64(s.Steps)
	if s.Steps > f.MaxSteps {
		f.MaxSteps = s.Steps
	}
	switch s.Outcome {
	case march.OutcomeHit:
		f.Hits++
	case march.OutcomeEscaped:
		f.Escaped++
	case march.OutcomeExhausted:
		f.Exhausted++
	}
}

func (f *FrameStats) Merge(o FrameStats) {
	f.Rays += o.Rays
	f.Hits += o.Hits
	f.Escaped += o.Escaped
	f.Exhausted += o.Exhausted
	f.Steps += o.Steps
	if o.MaxSteps > f.MaxSteps {
		f.MaxSteps = o.MaxSteps
	}
}

func (f FrameStats) frac(n uint64) float64 {
	if f.Rays == 0 {
		return 0
	}
	return float64(n) / float64(f.Rays)
}

func (f FrameStats) HitRatio() float64       { return f.frac(f.Hits) }
func (f FrameStats) EscapedRatio() float64   { return f.frac(f.Escaped) }
func (f FrameStats) ExhaustedRatio() float64 { return f.frac(f.Exhausted) }
func (f FrameStats) MeanSteps() float64      { return f.frac(f.Steps) }

// Values maps metric names to values, matching the names of Standard().
func (f FrameStats) Values() map[string]float64 {
	return map[string]float64{
		"hit_ratio":  f.HitRatio(),
		"mean_steps": f.MeanSteps(),
		"exhausted":  f.ExhaustedRatio(),
		"escaped":    f.EscapedRatio(),
	}
}
