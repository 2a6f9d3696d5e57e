package ecs

import (
	"math"
	"testing"

	"github.com/phanxgames/globe"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []globe.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e globe.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(globe.InteractionEvent{
		Type:   globe.EventPointerDown,
		X:      100,
		Y:      200,
		Button: globe.MouseButtonLeft,
	})
	store.EmitEvent(globe.InteractionEvent{
		Type:       globe.EventPinch,
		Scale:      2.0,
		ScaleDelta: 0.5,
	})

	// Events are queued until processed.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != globe.EventPointerDown || e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0: %+v", e0)
	}
	e1 := received[1]
	if e1.Type != globe.EventPinch || e1.Scale != 2.0 {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e globe.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e globe.InteractionEvent) {
		count2++
	})

	store.EmitEvent(globe.InteractionEvent{Type: globe.EventWheel, WheelY: -100})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestTrackInteractions(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	e := TrackInteractions(world)

	store.EmitEvent(globe.InteractionEvent{Type: globe.EventDragStart, X: 10, Y: 10})
	store.EmitEvent(globe.InteractionEvent{Type: globe.EventDrag, X: 13, Y: 14, DeltaX: 3, DeltaY: 4})
	store.EmitEvent(globe.InteractionEvent{Type: globe.EventWheel, WheelY: -100})
	store.EmitEvent(globe.InteractionEvent{Type: globe.EventPinch, X: 50, Y: 60, ScaleDelta: 1})
	events.ProcessAllEvents(world)

	s := InteractionStatsComponent.Get(world.Entry(e))
	if s.Drags != 1 || s.Wheels != 1 || s.Pinches != 1 {
		t.Errorf("counts = %+v", *s)
	}
	if math.Abs(s.DragDistance-5) > 1e-9 {
		t.Errorf("DragDistance = %v, want 5", s.DragDistance)
	}
	if math.Abs(s.Zoom-2) > 1e-9 {
		t.Errorf("Zoom = %v, want 2", s.Zoom)
	}
	if s.LastX != 50 || s.LastY != 60 {
		t.Errorf("last position = (%v, %v), want (50, 60)", s.LastX, s.LastY)
	}
}
