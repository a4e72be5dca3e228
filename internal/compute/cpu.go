package compute

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// serialThreshold is the range size below which fan-out costs more than it
// saves.
const serialThreshold = 16

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

// NewCPUBackendWorkers pins the worker count; values below 1 mean NumCPU.
func NewCPUBackendWorkers(workers int) *CPUBackend {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return c.workers > 1 }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) Dispatch(ctx context.Context, n int, fn RangeFunc) error {
	if n <= 0 {
		return ctx.Err()
	}

	if n < serialThreshold || c.workers <= 1 {
		return dispatchSerial(ctx, n, fn)
	}

	// More chunks than workers keeps cores busy when rows cost unevenly.
	chunks := c.workers * 4
	if chunks > n {
		chunks = n
	}
	chunkSize := (n + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for start := 0; start < n; start += chunkSize {
		if gctx.Err() != nil {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(s, e)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
