package scene

import "errors"

var (
	// ErrNoPrimitives indicates a set with zero slots.
	ErrNoPrimitives = errors.New("scene: primitive count must be positive")

	// ErrGridExtent indicates a grid with a zero dimension.
	ErrGridExtent = errors.New("scene: grid extents must be positive")

	// ErrHandleCount indicates a handle list that does not match the slot count.
	ErrHandleCount = errors.New("scene: handle count does not match primitive count")

	// ErrExposure indicates an exposure outside (0, 1].
	ErrExposure = errors.New("scene: exposure out of range")
)
