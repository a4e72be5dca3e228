package render

import (
	"errors"
	"fmt"
)

var (
	// ErrImageSize indicates a zero or negative output resolution.
	ErrImageSize = errors.New("render: image size must be positive")

	// ErrCamera indicates a camera that cannot produce a view matrix.
	ErrCamera = errors.New("render: invalid camera")

	// ErrFrameCanceled indicates a frame was abandoned mid-dispatch. The
	// partial image is discarded.
	ErrFrameCanceled = errors.New("render: frame canceled")
)

// FrameError wraps a failure with the frame it happened in.
type FrameError struct {
	Frame   int
	Time    float32
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.3fs): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
