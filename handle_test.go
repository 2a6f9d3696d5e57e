package globe

import (
	"context"
	"errors"
	"testing"
)

type fakeSurface struct {
	w, h  int
	ratio float64
}

func (s fakeSurface) Size() (int, int)           { return s.w, s.h }
func (s fakeSurface) DeviceScaleFactor() float64 { return s.ratio }

func newTestHandle(t *testing.T) *SceneHandle {
	t.Helper()
	h, err := Initialize(fakeSurface{800, 600, 1}, testDatasets(t), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Dispose)
	return h
}

func TestInitializeNilTarget(t *testing.T) {
	h, err := Initialize(nil, Datasets{}, DefaultConfig())
	if !errors.Is(err, ErrNoRenderTarget) {
		t.Fatalf("err = %v, want ErrNoRenderTarget", err)
	}
	if h != nil {
		t.Error("handle returned with an error")
	}
}

func TestInitializeInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.FOV = 0
	if _, err := Initialize(fakeSurface{800, 600, 1}, Datasets{}, cfg); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestInitializeWiresScene(t *testing.T) {
	h := newTestHandle(t)

	if h.Camera.Aspect != 800.0/600.0 {
		t.Errorf("aspect = %v", h.Camera.Aspect)
	}
	if h.Camera.Position.Z() != 85 {
		t.Errorf("camera z = %v", h.Camera.Position.Z())
	}
	if len(h.Lights) != 3 {
		t.Fatalf("lights = %d, want 3", len(h.Lights))
	}
	for i, l := range h.Lights {
		if l.Parent != h.Camera.Object {
			t.Errorf("light %d is not attached to the camera", i)
		}
	}
	if h.Globe.Parent != h.Scene.Root() || h.Camera.Parent != h.Scene.Root() {
		t.Error("globe and camera must be children of the scene root")
	}
	if h.Scene.Fog == nil || h.Scene.Fog.Near != 400 || h.Scene.Fog.Far != 2000 {
		t.Errorf("fog = %+v", h.Scene.Fog)
	}
	if len(h.Globe.Arcs) != 1 || len(h.Globe.Points) != 1 {
		t.Errorf("arcs=%d points=%d", len(h.Globe.Arcs), len(h.Globe.Points))
	}
	if w, hh := h.Renderer.OutputSize(); w != 800 || hh != 600 {
		t.Errorf("output = %dx%d", w, hh)
	}
	if h.Loop != nil {
		t.Error("loop created before Start")
	}
}

func TestInitializeClampsPixelRatio(t *testing.T) {
	h, err := Initialize(fakeSurface{100, 100, 4}, Datasets{}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Dispose()
	if h.Viewport.PixelRatio != 2 || h.Renderer.PixelRatio() != 2 {
		t.Errorf("pixel ratio = %v / %v, want 2", h.Viewport.PixelRatio, h.Renderer.PixelRatio())
	}
}

func TestInitializeIndependentHandles(t *testing.T) {
	a := newTestHandle(t)
	b := newTestHandle(t)
	if a.Scene == b.Scene || a.Camera == b.Camera || a.Globe == b.Globe {
		t.Error("handles share scene state")
	}
	a.Dispose()
	if b.Disposed() || b.Scene.Root().IsDisposed() {
		t.Error("disposing one handle affected the other")
	}
}

func TestHandleStartStop(t *testing.T) {
	h := newTestHandle(t)
	sched := &fakeScheduler{}
	h.Start(context.Background(), sched)
	if h.Loop == nil || h.Loop.State() != LoopRunning {
		t.Fatal("loop not running after Start")
	}
	if sched.requests != 1 {
		t.Errorf("requests = %d, want 1", sched.requests)
	}

	// No render target: the first frame degrades.
	var degraded error
	h.OnDegraded = func(err error) { degraded = err }
	sched.run()
	if !errors.Is(degraded, ErrContextLost) {
		t.Errorf("OnDegraded got %v, want ErrContextLost", degraded)
	}
	if h.Loop.State() != LoopStopped {
		t.Error("loop still running after a failed frame")
	}

	h.Start(context.Background(), sched)
	h.Stop()
	sched.run()
	if h.Loop.Iterations() != 0 {
		t.Errorf("iterations = %d after Stop", h.Loop.Iterations())
	}
}

func TestHandleDispose(t *testing.T) {
	h := newTestHandle(t)
	sched := &fakeScheduler{}
	h.Start(context.Background(), sched)
	h.Dispose()
	h.Dispose()

	if !h.Disposed() {
		t.Error("Disposed() = false")
	}
	if h.Loop.State() != LoopStopped {
		t.Error("Dispose did not stop the loop")
	}
	if !h.Scene.Root().IsDisposed() {
		t.Error("scene graph not released")
	}
	if err := h.Renderer.Render(h.Scene, h.Camera); !errors.Is(err, ErrContextLost) {
		t.Errorf("Render after Dispose = %v", err)
	}

	h.HandleResize(10, 10, 1)
	if h.Viewport.Width != 800 {
		t.Error("resize handled after Dispose")
	}
	h.Start(context.Background(), sched)
	if h.Loop.State() != LoopStopped {
		t.Error("Start restarted a disposed handle")
	}
}

func TestHandleResizeAndPointer(t *testing.T) {
	h := newTestHandle(t)
	h.HandleResize(1200, 600, 1.5)
	if h.Camera.Aspect != 2 || h.Renderer.PixelRatio() != 1.5 {
		t.Errorf("aspect=%v ratio=%v", h.Camera.Aspect, h.Renderer.PixelRatio())
	}
	h.HandlePointerMove(1200, 0)
	if h.Viewport.Pointer != (Vec2{0.5, 0.5}) {
		t.Errorf("pointer = %+v", h.Viewport.Pointer)
	}
}

func TestHandleStartWhileRunningKeepsContext(t *testing.T) {
	h := newTestHandle(t)
	sched := &fakeScheduler{}
	first, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(first, sched)
	h.Start(context.Background(), sched)
	if sched.requests != 1 {
		t.Errorf("requests = %d, want 1", sched.requests)
	}

	// Cancelling the first context still stops the loop.
	cancel()
	sched.run()
	if h.Loop.State() != LoopStopped {
		t.Error("loop ignored cancellation of the context it was started with")
	}
}
