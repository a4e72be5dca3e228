// Package handles provides scripted stand-ins for the draggable widgets a
// host would bind to primitive slots.
//
// An Anchor is a scene.Handle with a rest position and a current position.
// An Animator moves a slice of anchors as a function of time:
//
//	rig := handles.NewRig(set.Centers(), anim)
//	renderer.SetHandles(rig.Handles())
//	renderer.SetAnimation(rig.Animate)
//
// Animators are pure functions of time and rest positions, so replaying a
// time value reproduces the same positions.
package handles
