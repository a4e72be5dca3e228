// Package compute provides the work dispatch backends used by the renderer.
//
// A backend covers an index range (image rows) with calls to a range
// function:
//
//   - cpu: chunks across runtime.NumCPU() goroutines via errgroup
//   - serial: the calling goroutine, one index per call
//
// The package selects a default at init:
//
//	backend := compute.GetBackend()
//	err := backend.Dispatch(ctx, height, func(start, end int) error {
//		for y := start; y < end; y++ {
//			renderRow(y)
//		}
//		return nil
//	})
//
// Dispatch honors context cancellation between ranges; a range already
// running finishes before the error is returned.
package compute
