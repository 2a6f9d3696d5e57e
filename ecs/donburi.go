package ecs

import (
	"math"

	"github.com/phanxgames/globe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for globe interaction
// events.
var InteractionEventType = events.NewEventType[globe.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) globe.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event globe.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// InteractionStats accumulates what the user did to the globe.
type InteractionStats struct {
	Drags   int
	Wheels  int
	Pinches int
	// DragDistance is the total pointer travel while orbiting, in pixels.
	DragDistance float64
	// Zoom is the product of all pinch steps.
	Zoom  float64
	LastX float64
	LastY float64
}

// InteractionStatsComponent holds the totals kept by TrackInteractions.
var InteractionStatsComponent = donburi.NewComponentType[InteractionStats]()

// TrackInteractions creates an entity carrying InteractionStats and keeps
// it updated from InteractionEventType. Totals change when the world's
// events are processed.
func TrackInteractions(world donburi.World) donburi.Entity {
	e := world.Create(InteractionStatsComponent)
	InteractionStatsComponent.SetValue(world.Entry(e), InteractionStats{Zoom: 1})
	InteractionEventType.Subscribe(world, func(w donburi.World, evt globe.InteractionEvent) {
		entry := w.Entry(e)
		if !entry.Valid() {
			return
		}
		s := InteractionStatsComponent.Get(entry)
		switch evt.Type {
		case globe.EventDragStart:
			s.Drags++
		case globe.EventDrag:
			s.DragDistance += math.Hypot(evt.DeltaX, evt.DeltaY)
		case globe.EventWheel:
			s.Wheels++
		case globe.EventPinch:
			s.Pinches++
			s.Zoom *= 1 + evt.ScaleDelta
		}
		if evt.Type != globe.EventWheel {
			s.LastX, s.LastY = evt.X, evt.Y
		}
	})
	return e
}
