package metrics

import (
	"sync"

	"github.com/san-kum/blobmarch/internal/march"
)

// Collector feeds march states from concurrent render workers into a set
// of metrics. Workers hand over whole rows so the lock is taken once per
// row rather than once per ray.
type Collector struct {
	mu      sync.Mutex
	metrics []Metric
}

// NewCollector observes ms, or Standard() when none are given.
func NewCollector(ms ...Metric) *Collector {
	if len(ms) == 0 {
		ms = Standard()
	}
	return &Collector{metrics: ms}
}

func (c *Collector) ObserveAll(states []march.MarchState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.metrics {
		for _, s := range states {
			m.Observe(s)
		}
	}
}

func (c *Collector) Values() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.metrics {
		m.Reset()
	}
}
