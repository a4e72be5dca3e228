// Package viz provides the terminal preview for blob scenes.
//
// Frames are rendered at terminal resolution and drawn with half-block
// cells: each character shows two pixels, the upper one as the foreground
// of '▀' and the lower one as its background.
//
//   - [Model]: live preview with a stats panel and frame-time graph
//   - [Picker]: preset menu that launches the live preview
//   - [Recorder]: GIF capture of the preview
//   - [Watcher]: config file hot reload
//
// # Key Bindings
//
//	Space - Pause/Resume
//	←/→   - Orbit the camera
//	↑/↓   - Smooth factor up/down
//	A     - Cycle animators
//	S     - Toggle lit/flat shading
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	R     - Reset time, camera and handles
//	Q     - Quit
//
// Recordings are written to the configured GIF path when recording stops.
package viz
