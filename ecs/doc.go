// Package ecs bridges armature edit events into an entity component system.
//
// [NewDonburiSink] publishes every scene change (joints added or deleted,
// reparenting, keyframe edits, selection and playback changes) into a
// [Donburi] world as typed events. Subscribe to [EditEventType] in your ECS
// systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
