package compute

import (
	"context"
	"errors"
)

// ErrNoBackend is returned when dispatch is requested with nothing selected.
var ErrNoBackend = errors.New("compute: no backend available")

// RangeFunc processes the half-open index range [start, end).
type RangeFunc func(start, end int) error

type Backend interface {
	Name() string
	Available() bool
	// Dispatch covers [0, n) with calls to fn and returns the first error,
	// or ctx.Err() if the context ends before all ranges finish.
	Dispatch(ctx context.Context, n int, fn RangeFunc) error
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil && activeBackend != b {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend prefers the parallel CPU backend when more than one core
// is available.
func AutoSelectBackend() Backend {
	cpu := NewCPUBackend()
	if cpu.Available() {
		return cpu
	}
	return NewSerialBackend()
}

// ByName resolves "cpu", "serial" or "auto".
func ByName(name string) (Backend, error) {
	switch name {
	case "", "auto":
		return AutoSelectBackend(), nil
	case "cpu":
		return NewCPUBackend(), nil
	case "serial":
		return NewSerialBackend(), nil
	}
	return nil, errors.New("compute: unknown backend " + name)
}
