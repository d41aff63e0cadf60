// Package ecs provides ECS adapters for peekaboo's found events.
//
// The primary adapter is [NewDonburiSink], which publishes every
// [peekaboo.FoundEvent] into a [Donburi] world as a typed event.
// Subscribe to [FoundEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	session.Layer().SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
