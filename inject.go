package globe

// syntheticPointerEvent represents a single injected pointer event in window
// pixels, fed through the same state machine as real mouse input.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// InjectPress queues a pointer press event at the given window coordinates
// (left button). The event is consumed on the next frame's input pass.
func (b *Bridge) InjectPress(x, y float64) {
	b.injectQueue = append(b.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a pointer move event with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (b *Bridge) InjectMove(x, y float64) {
	b.injectQueue = append(b.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectHover queues a pointer move event with no button held.
func (b *Bridge) InjectHover(x, y float64) {
	b.injectQueue = append(b.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectRelease queues a pointer release event at the given coordinates.
func (b *Bridge) InjectRelease(x, y float64) {
	b.injectQueue = append(b.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (b *Bridge) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	b.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		b.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	b.InjectRelease(toX, toY)
}

// InjectWheel queues a scroll step in browser convention (negative is up).
func (b *Bridge) InjectWheel(dy float64) {
	b.wheelQueue = append(b.wheelQueue, dy)
}

// Pending reports how many injected events are still queued.
func (b *Bridge) Pending() int {
	return len(b.injectQueue) + len(b.wheelQueue)
}

// processInjectedInput pops one pointer event and one wheel step from the
// inject queues and feeds them through the handlers. Returns true if a
// pointer event was consumed (real mouse input should be skipped).
func (b *Bridge) processInjectedInput(mods KeyModifiers) bool {
	if len(b.wheelQueue) > 0 {
		dy := b.wheelQueue[0]
		copy(b.wheelQueue, b.wheelQueue[1:])
		b.wheelQueue = b.wheelQueue[:len(b.wheelQueue)-1]
		b.HandleWheel(dy)
	}
	if len(b.injectQueue) == 0 {
		return false
	}
	evt := b.injectQueue[0]
	copy(b.injectQueue, b.injectQueue[1:])
	b.injectQueue = b.injectQueue[:len(b.injectQueue)-1]

	b.processPointer(0, evt.x, evt.y, evt.pressed, evt.button, mods)
	return true
}
