// Package ecs provides ECS adapters for gesturear's gesture events.
//
// The primary adapter is [NewDonburiSink], which bridges the gestures a
// [gesturear.Controller] dispatches (single tap, double tap, long press) into
// a [Donburi] world as typed events. Subscribe to [GestureEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	ctl := gesturear.NewController(cfg, gesturear.ControllerDeps{Events: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
