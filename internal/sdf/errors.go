package sdf

import "errors"

var (
	// ErrNoSpheres indicates a field built over an empty sphere set.
	ErrNoSpheres = errors.New("sdf: field needs at least one sphere")

	// ErrSmoothFactor indicates a blend radius outside (0, MaxSmoothFactor].
	ErrSmoothFactor = errors.New("sdf: smooth factor out of range")

	// ErrRadius indicates a non-positive sphere radius.
	ErrRadius = errors.New("sdf: sphere radius must be positive")
)
