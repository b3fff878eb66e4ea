// Package armature is the joint hierarchy and keyframe animation engine behind
// a 3D skeleton-authoring tool.
//
// Armature owns the skeleton graph, transform propagation, per-joint keyframe
// timelines and frame-based playback. Windowing and drawing belong to the host
// application, which feeds input in and reads world transforms or a
// [Snapshot] back out. [Camera] is a small orbit camera that turns screen
// points into picking rays.
//
// # Quick start
//
//	scene := armature.NewScene()
//	hip := scene.AddJoint(nil)           // "joint0", selected
//	knee := scene.AddJoint(hip)          // "joint1", child of hip
//	knee.Position = armature.Vec3{0, -2, 0}
//
//	scene.SetFrame(1)
//	_ = scene.SetKeyframe(knee, 1)
//	knee.Rotation = armature.Vec3{45, 0, 0}
//	_ = scene.SetKeyframe(knee, 30)
//
//	scene.Play()
//	for range 60 {
//		scene.Update() // advance one frame and pose every joint
//	}
//
// # Scene graph
//
// Every element is a [Node]. Nodes are created by and owned by a [Scene],
// which stores them in an arena keyed by [NodeID]. Parent and child links
// are ids into that arena, so deleting a node can never leave a dangling
// reference. Joints are nodes of kind [NodeKindJoint]; only they carry a
// [Timeline].
//
// World transforms are composed on demand from the ancestor chain as
// T(position) * Ry * Rx * Rz * S(scale) at each level, with rotations given
// in degrees.
//
// # Animation
//
// A [Timeline] keeps keyframes sorted by frame with at most one keyframe per
// frame. Sampling finds the bracketing pair and blends each channel
// linearly, optionally remapped through an easing curve. Any
// [ease.TweenFunc] from gween can be installed with [Scene.SetCurve];
// [SigmoidEase] is the default ease-in/ease-out curve.
//
// # Scripting
//
// A [Script] replays editor commands from YAML, one command per step. The
// armature CLI uses it for headless runs and tests use it to drive whole
// editing sessions.
//
// # Persistence
//
// [Scene.Save] and [Scene.Load] read and write a line-oriented joint dump,
// one record per joint. Loading tolerates forward parent references
// and skips malformed records, reporting them in a [LoadReport].
//
// [ease.TweenFunc]: https://pkg.go.dev/github.com/tanema/gween/ease#TweenFunc
package armature
