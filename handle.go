package globe

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Surface is the drawable area the scene renders into.
type Surface interface {
	// Size returns the surface size in CSS pixels.
	Size() (width, height int)
	// DeviceScaleFactor returns the device pixels per CSS pixel.
	DeviceScaleFactor() float64
}

// SceneHandle owns everything Initialize builds. It is the only way to reach
// the scene; there is no package-level scene state.
type SceneHandle struct {
	Scene    *Scene
	Camera   *Camera
	Lights   []*DirectionalLight
	Globe    *Globe
	Controls *OrbitControls
	Renderer *Renderer
	Viewport *Viewport
	Bridge   *Bridge
	Clock    *AnimationClock
	Loop     *Loop

	// OnDegraded is called once if rendering fails and the loop stops.
	OnDegraded func(error)

	cancel   context.CancelFunc
	disposed bool
}

// Initialize builds the scene graph for target: background and fog, the
// camera with its light rig, the globe bound to data, the orbit controls
// and the renderer. A nil target fails with ErrNoRenderTarget before
// anything is allocated.
//
// Each call builds an independent scene. Callers that initialize again must
// Dispose the previous handle; nothing else releases it.
func Initialize(target Surface, data Datasets, cfg Config) (*SceneHandle, error) {
	if target == nil {
		return nil, ErrNoRenderTarget
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	w, h := target.Size()
	vp := &Viewport{MaxPixelRatio: cfg.MaxPixelRatio}
	vp.Resize(float64(w), float64(h), target.DeviceScaleFactor())

	scene := NewScene()
	scene.Background = cfg.Background
	scene.Fog = &Fog{Color: cfg.Fog.Color, Near: cfg.Fog.Near, Far: cfg.Fog.Far}
	if cfg.Debug {
		scene.SetDebugMode(true)
	}

	cam := NewPerspectiveCamera(cfg.Camera.FOV, vp.Aspect(), cfg.Camera.Near, cfg.Camera.Far)
	p := cfg.Camera.Position
	cam.SetPosition(p[0], p[1], p[2])
	cam.LookAt(mgl64.Vec3{})
	scene.Add(cam.Object)

	lights := make([]*DirectionalLight, 0, len(cfg.Lights))
	for _, lc := range cfg.Lights {
		l := NewDirectionalLight(lc.Color, lc.Intensity, vec3(lc.Position))
		cam.AddChild(l.Object)
		lights = append(lights, l)
	}

	g := NewGlobe(data, cfg.Layers, cfg.Globe)
	scene.Add(g.Object)

	renderer := NewRenderer(vp.Width, vp.Height, vp.PixelRatio)
	controls := NewOrbitControls(cam, vp, cfg.Controls)
	bridge := NewBridge(vp, cam, renderer, controls)
	if cfg.Controls.DragDeadZone > 0 {
		bridge.SetDragDeadZone(cfg.Controls.DragDeadZone)
	}

	if globalDebug {
		debugLogf("initialized: %d arcs, %d points, %d labels, %d hex cells",
			len(g.Arcs), len(g.Points), len(g.Labels), len(g.Hexes))
	}

	return &SceneHandle{
		Scene:    scene,
		Camera:   cam,
		Lights:   lights,
		Globe:    g,
		Controls: controls,
		Renderer: renderer,
		Viewport: vp,
		Bridge:   bridge,
		Clock:    NewAnimationClock(),
	}, nil
}

// Start begins the render loop on sched. The loop stops when ctx is
// cancelled, when Stop or Dispose is called, or when a frame fails to
// render. Calling it while the loop is running does nothing.
func (h *SceneHandle) Start(ctx context.Context, sched FrameScheduler) {
	if h.disposed {
		return
	}
	if h.Loop != nil && h.Loop.State() == LoopRunning {
		return
	}
	if h.Loop == nil {
		h.Loop = NewLoop(sched, h.Clock, h.Globe, h.Controls, h.Globe.SpinRate, h.renderFrame)
		h.Loop.OnDegraded = func(err error) {
			if h.OnDegraded != nil {
				h.OnDegraded(err)
			}
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, h.cancel = context.WithCancel(ctx)
	h.Loop.Start(ctx)
}

func (h *SceneHandle) renderFrame() error {
	return h.Renderer.Render(h.Scene, h.Camera)
}

// Stop halts the render loop without releasing resources.
func (h *SceneHandle) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
	if h.Loop != nil {
		h.Loop.Stop()
	}
}

// Disposed reports whether Dispose has been called.
func (h *SceneHandle) Disposed() bool {
	return h.disposed
}

// Dispose stops the loop, detaches the event handlers and releases the
// renderer's GPU images and the object graph. Safe to call more than once.
func (h *SceneHandle) Dispose() {
	if h.disposed {
		return
	}
	h.Stop()
	h.disposed = true
	h.Bridge.Detach()
	h.Controls.Dispose()
	h.Renderer.Dispose()
	h.Scene.Dispose()
}

// HandleResize forwards a host resize to the bridge.
func (h *SceneHandle) HandleResize(width, height, deviceRatio float64) {
	h.Bridge.HandleResize(width, height, deviceRatio)
}

// HandlePointerMove forwards a host pointer move to the bridge.
func (h *SceneHandle) HandlePointerMove(x, y float64) {
	h.Bridge.HandlePointerMove(x, y)
}
