// Package metrics aggregates per-ray march statistics into frame stats.
package metrics

import (
	"github.com/san-kum/blobmarch/internal/march"
)

// Metric observes one march at a time and reports a single value.
type Metric interface {
	Name() string
	Observe(s march.MarchState)
	Value() float64
	Reset()
}

type ratio struct {
	name    string
	hits    int
	samples int
	match   march.Outcome
}

func (r *ratio) Name() string { return r.name }

func (r *ratio) Observe(s march.MarchState) {
	r.samples++
	if s.Outcome == r.match {
		r.hits++
	}
}

func (r *ratio) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.hits) / float64(r.samples)
}

func (r *ratio) Reset() {
	r.hits = 0
	r.samples = 0
}

// NewHitRatio is the fraction of rays that reached the surface.
func NewHitRatio() Metric { return &ratio{name: "hit_ratio", match: march.OutcomeHit} }

// NewEscaped is the fraction of rays that left the scene bound.
func NewEscaped() Metric { return &ratio{name: "escaped", match: march.OutcomeEscaped} }

// NewExhausted is the fraction of rays that ran out of steps. A high value
// means MaxSteps is too low for the blend.
func NewExhausted() Metric { return &ratio{name: "exhausted", match: march.OutcomeExhausted} }

type MeanSteps struct {
	sum     uint64
	samples int
}

func NewMeanSteps() *MeanSteps { return &MeanSteps{} }

func (m *MeanSteps) Name() string { return "mean_steps" }

func (m *MeanSteps) Observe(s march.MarchState) {
	m.sum += uint64(s.Steps)
	m.samples++
}

func (m *MeanSteps) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.samples)
}

func (m *MeanSteps) Reset() {
	m.sum = 0
	m.samples = 0
}

// Standard returns a fresh instance of every ray metric.
func Standard() []Metric {
	return []Metric{NewHitRatio(), NewMeanSteps(), NewExhausted(), NewEscaped()}
}
