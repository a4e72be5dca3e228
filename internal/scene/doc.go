// Package scene owns the per-session primitive state and the per-frame
// uniforms that feed the ray marcher.
//
// [PrimitiveSet] is a fixed-size ordered set of spheres. The only way to
// move a primitive after construction is [FrameSync.Sync], which copies the
// world positions of host handles into their slots and rewrites the whole
// [Uniforms] block for the frame.
//
// # Frame ordering
//
// Sync must return before any ray of that frame is marched. Renderers take
// a [Uniforms] snapshot after Sync and never look at the live set again
// until the next frame.
package scene
