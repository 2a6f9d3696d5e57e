// Package ecs provides ECS adapters for the globe's interaction events.
//
// [NewDonburiStore] bridges pointer, drag, wheel and pinch events from a
// globe.Bridge into a [Donburi] world as typed events. Subscribe to
// [InteractionEventType] in your ECS systems to receive them, or call
// [TrackInteractions] for an entity that keeps running totals.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	handle.Bridge.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
