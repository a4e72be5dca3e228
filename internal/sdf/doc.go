// Package sdf evaluates the implicit surface rendered by blobmarch.
//
// The surface is the smooth union of a fixed, ordered set of spheres:
//
//   - [SphereSDF]: signed distance to one sphere
//   - [SmoothMin]: polynomial smooth minimum with blend radius k
//   - [SceneField]: left fold of SmoothMin over all spheres in slot order
//
// # Ordering
//
// SmoothMin is not associative, so the blended surface depends on the
// order of the spheres at the ULP level. SceneField always folds in slot
// order; callers comparing fields must use the same order.
//
// # Thread Safety
//
// A SceneField is immutable after construction and may be queried from
// any number of goroutines.
package sdf
