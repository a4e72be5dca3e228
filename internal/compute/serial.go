package compute

import "context"

// SerialBackend runs every range on the calling goroutine, one index at a
// time. Useful for deterministic debugging and single-core hosts.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) Dispatch(ctx context.Context, n int, fn RangeFunc) error {
	return dispatchSerial(ctx, n, fn)
}

func dispatchSerial(ctx context.Context, n int, fn RangeFunc) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i, i+1); err != nil {
			return err
		}
	}
	return ctx.Err()
}
