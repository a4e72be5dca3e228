// Package march finds surface hits along camera rays by sphere tracing a
// signed distance field, and estimates surface normals at those hits.
//
// Marching is bounded: every call takes at most Params.MaxSteps field
// evaluations and reports exactly one of hit or miss. A ray that escapes
// past Params.MaxDistance and a ray that runs out of steps are both
// misses; [MarchState.Outcome] tells them apart for statistics.
//
// # Example
//
//	m, _ := march.New(march.DefaultParams())
//	ray := march.NewRay(camPos, pixelWorld)
//	if hit := m.March(ray, field); hit.Hit {
//		n := march.DefaultNormalEstimator().Normal(hit.Point, field)
//	}
//
// A Marcher holds only its parameters and can be shared by any number of
// goroutines.
package march
