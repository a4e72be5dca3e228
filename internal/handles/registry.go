package handles

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAnimator is returned for names missing from the registry.
var ErrUnknownAnimator = errors.New("handles: unknown animator")

var animators = map[string]func(seed int64) Animator{
	"static":  func(int64) Animator { return Static{} },
	"orbit":   func(int64) Animator { return NewOrbit() },
	"breathe": func(int64) Animator { return NewBreathe() },
	"drift":   func(seed int64) Animator { return NewDrift(seed) },
}

// Get builds a fresh animator. seed only affects drift.
func Get(name string, seed int64) (Animator, error) {
	fn, ok := animators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnimator, name)
	}
	return fn(seed), nil
}

// List returns the registered names, sorted.
func List() []string {
	names := make([]string, 0, len(animators))
	for name := range animators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the name after current in List order, wrapping around.
func Next(current string) string {
	names := List()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
