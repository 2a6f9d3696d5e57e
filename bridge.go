package globe

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// EntityStore is the interface for optional ECS integration.
// When set on a Bridge, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge. Coordinates
// are window pixels.
type InteractionEvent struct {
	Type      EventType
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
	// Wheel field (valid for EventWheel)
	WheelY float64
	// Pinch fields (valid for EventPinch)
	Scale      float64
	ScaleDelta float64
}

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	button   MouseButton // button captured at press time
}

type pinchState struct {
	active      bool
	initialDist float64
	prevDist    float64
}

// Bridge routes host events into the viewport, camera, renderer and orbit
// controls. Resize and pointer-move handlers run to completion and leave
// every field consistent after each statement.
type Bridge struct {
	viewport *Viewport
	camera   *Camera
	renderer *Renderer
	controls *OrbitControls
	store    EntityStore

	pointers     [maxPointers]pointerState
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	pinch        pinchState

	injectQueue []syntheticPointerEvent
	wheelQueue  []float64

	detached bool
}

// NewBridge wires the handlers. Any of renderer and controls may be nil.
func NewBridge(vp *Viewport, cam *Camera, renderer *Renderer, controls *OrbitControls) *Bridge {
	return &Bridge{
		viewport:     vp,
		camera:       cam,
		renderer:     renderer,
		controls:     controls,
		dragDeadZone: defaultDragDeadZone,
	}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (b *Bridge) SetDragDeadZone(pixels float64) {
	b.dragDeadZone = pixels
}

// SetEntityStore sets the optional ECS bridge.
func (b *Bridge) SetEntityStore(store EntityStore) {
	b.store = store
}

// Detach stops the bridge from handling further events.
func (b *Bridge) Detach() {
	b.detached = true
	b.injectQueue = nil
	b.wheelQueue = nil
}

// HandleResize applies a new window size: viewport, camera aspect and
// projection, renderer size and clamped pixel ratio, in that order.
func (b *Bridge) HandleResize(width, height, deviceRatio float64) {
	if b.detached || width <= 0 || height <= 0 {
		return
	}
	b.viewport.Resize(width, height, deviceRatio)
	b.camera.Aspect = width / height
	b.camera.UpdateProjectionMatrix()
	if b.renderer != nil {
		b.renderer.SetSize(width, height)
		b.renderer.SetPixelRatio(b.viewport.PixelRatio)
	}
}

// HandlePointerMove records the normalized pointer position.
func (b *Bridge) HandlePointerMove(x, y float64) {
	if b.detached {
		return
	}
	b.viewport.SetPointer(x, y)
}

// HandleWheel applies a scroll step in browser convention (negative is up).
func (b *Bridge) HandleWheel(dy float64) {
	if b.detached || dy == 0 {
		return
	}
	if b.controls != nil {
		b.controls.Wheel(dy)
	}
	b.emit(InteractionEvent{Type: EventWheel, WheelY: dy})
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput polls Ebitengine for mouse, wheel and touch input. Injected
// events take precedence over the real mouse for the frame they are
// consumed in.
func (b *Bridge) processInput() {
	if b.detached {
		return
	}
	mods := readModifiers()
	if !b.processInjectedInput(mods) {
		b.processMousePointer(mods)
	}
	// Ebitengine reports positive Y for scrolling up.
	if _, wy := ebiten.Wheel(); wy != 0 {
		b.HandleWheel(-wy)
	}
	b.processTouchPointers(mods)
	b.detectPinch(mods)
}

// toWindow converts a position reported by Ebitengine, which is in device
// pixels because Layout returns the device-pixel output size, to window
// pixels.
func (b *Bridge) toWindow(x, y int) (float64, float64) {
	r := b.viewport.PixelRatio
	if r <= 0 {
		r = 1
	}
	return float64(x) / r, float64(y) / r
}

// processMousePointer handles mouse input (pointer 0).
func (b *Bridge) processMousePointer(mods KeyModifiers) {
	mx, my := b.toWindow(ebiten.CursorPosition())

	// If the pointer is already down, keep the stored button so it does not
	// change mid-interaction.
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}

	b.processPointer(0, mx, my, pressed, button, mods)
}

// processTouchPointers handles touch input (pointers 1-9).
func (b *Bridge) processTouchPointers(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(b.prevTouchIDs[:0])
	b.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := b.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := b.toWindow(ebiten.TouchPosition(tid))
		b.processPointer(slot, tx, ty, true, MouseButtonLeft, mods)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if b.touchUsed[i] && !activeSlots[i] {
			ps := &b.pointers[i]
			if ps.down {
				b.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft, mods)
			}
			b.touchUsed[i] = false
			b.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (b *Bridge) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if b.touchUsed[i] && b.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !b.touchUsed[i] {
			b.touchUsed[i] = true
			b.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer. Drags
// with the primary button orbit the camera; other buttons pan, which the
// controls ignore while panning is disabled.
func (b *Bridge) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &b.pointers[pointerID]

	if x != ps.lastX || y != ps.lastY {
		b.HandlePointerMove(x, y)
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX = x
		ps.startY = y
		ps.lastX = x
		ps.lastY = y
		ps.dragging = false
		b.emit(InteractionEvent{Type: EventPointerDown, X: x, Y: y, Button: button, Modifiers: mods})

	case !pressed && ps.down:
		if ps.dragging {
			b.emit(InteractionEvent{
				Type: EventDragEnd, X: x, Y: y, Button: ps.button, Modifiers: mods,
				StartX: ps.startX, StartY: ps.startY, DeltaX: x - ps.lastX, DeltaY: y - ps.lastY,
			})
		}
		b.emit(InteractionEvent{Type: EventPointerUp, X: x, Y: y, Button: ps.button, Modifiers: mods})
		ps.down = false
		ps.dragging = false
		ps.lastX = x
		ps.lastY = y

	case pressed && ps.down:
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging && !b.pinch.active {
				dx := x - ps.startX
				dy := y - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > b.dragDeadZone {
					ps.dragging = true
					b.emit(InteractionEvent{
						Type: EventDragStart, X: x, Y: y, Button: ps.button, Modifiers: mods,
						StartX: ps.startX, StartY: ps.startY, DeltaX: dx, DeltaY: dy,
					})
				}
			}
			if ps.dragging {
				b.drag(ps, x-ps.lastX, y-ps.lastY)
				b.emit(InteractionEvent{
					Type: EventDrag, X: x, Y: y, Button: ps.button, Modifiers: mods,
					StartX: ps.startX, StartY: ps.startY, DeltaX: x - ps.lastX, DeltaY: y - ps.lastY,
				})
			}
		}
		ps.lastX = x
		ps.lastY = y

	default:
		if x != ps.lastX || y != ps.lastY {
			b.emit(InteractionEvent{Type: EventPointerMove, X: x, Y: y, Button: button, Modifiers: mods})
			ps.lastX = x
			ps.lastY = y
		}
	}
}

func (b *Bridge) drag(ps *pointerState, dx, dy float64) {
	if b.controls == nil {
		return
	}
	if ps.button == MouseButtonLeft {
		b.controls.Rotate(dx, dy)
	} else {
		b.controls.Pan(dx, dy)
	}
}

// detectPinch turns two active touch pointers into dolly steps.
func (b *Bridge) detectPinch(mods KeyModifiers) {
	var p0, p1, count int
	for i := 1; i < maxPointers; i++ {
		if b.pointers[i].down {
			if count == 0 {
				p0 = i
			} else if count == 1 {
				p1 = i
			}
			count++
		}
	}

	if count != 2 {
		b.pinch.active = false
		return
	}

	ps0 := &b.pointers[p0]
	ps1 := &b.pointers[p1]
	dx := ps1.lastX - ps0.lastX
	dy := ps1.lastY - ps0.lastY
	dist := math.Sqrt(dx*dx + dy*dy)

	if !b.pinch.active {
		b.pinch.active = true
		b.pinch.initialDist = dist
		b.pinch.prevDist = dist
	} else {
		scale := 1.0
		if b.pinch.initialDist > 0 {
			scale = dist / b.pinch.initialDist
		}
		step := 1.0
		if b.pinch.prevDist > 0 {
			step = dist / b.pinch.prevDist
		}
		if b.controls != nil && step != 1 {
			b.controls.Dolly(step)
		}
		b.emit(InteractionEvent{
			Type: EventPinch, X: (ps0.lastX + ps1.lastX) / 2, Y: (ps0.lastY + ps1.lastY) / 2,
			Button: MouseButtonLeft, Modifiers: mods, Scale: scale, ScaleDelta: step - 1,
		})
		b.pinch.prevDist = dist
	}

	// Pinch pointers never orbit.
	ps0.dragging = false
	ps1.dragging = false
}

func (b *Bridge) emit(evt InteractionEvent) {
	if b.store == nil {
		return
	}
	b.store.EmitEvent(evt)
}
